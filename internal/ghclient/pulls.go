package ghclient

import (
	"context"
	"fmt"
	"iter"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/prsweep/internal/constants"
	"github.com/spiffcs/prsweep/internal/log"
	"github.com/spiffcs/prsweep/internal/model"
)

// Repos lists every repository of org, all visibility types included.
// Pages are fetched as the sequence is consumed. A listing error is yielded
// once and ends the sequence.
func (c *Client) Repos(ctx context.Context, org string) iter.Seq2[model.Repository, error] {
	return func(yield func(model.Repository, error) bool) {
		opts := &gh.RepositoryListByOrgOptions{
			Type:        "all",
			ListOptions: gh.ListOptions{PerPage: constants.PageSize},
		}

		for {
			log.Debug("listing repositories", "org", org, "page", opts.Page)
			repos, resp, err := c.client.Repositories.ListByOrg(ctx, org, opts)
			if err != nil {
				yield(model.Repository{}, fmt.Errorf("failed to list repositories for %s: %w", org, err))
				return
			}

			for _, r := range repos {
				if !yield(toRepository(r, org), nil) {
					return
				}
			}

			if resp.NextPage == 0 {
				return
			}
			opts.Page = resp.NextPage
		}
	}
}

// OpenPullRequests lists the open pull requests of repo, page by page.
func (c *Client) OpenPullRequests(ctx context.Context, repo model.Repository) iter.Seq2[model.PullRequest, error] {
	return func(yield func(model.PullRequest, error) bool) {
		opts := &gh.PullRequestListOptions{
			State:       constants.StateOpen,
			ListOptions: gh.ListOptions{PerPage: constants.PageSize},
		}

		for {
			log.Debug("listing pull requests", "repo", repo.FullName(), "page", opts.Page)
			prs, resp, err := c.client.PullRequests.List(ctx, repo.Owner, repo.Name, opts)
			if err != nil {
				yield(model.PullRequest{}, fmt.Errorf("failed to list pull requests for %s: %w", repo.FullName(), err))
				return
			}

			for _, pr := range prs {
				if !yield(toPullRequest(repo, pr), nil) {
					return
				}
			}

			if resp.NextPage == 0 {
				return
			}
			opts.Page = resp.NextPage
		}
	}
}

// Commits returns all commits of a pull request.
func (c *Client) Commits(ctx context.Context, repo model.Repository, number int) ([]model.Commit, error) {
	opts := &gh.ListOptions{PerPage: constants.PageSize}

	var commits []model.Commit
	for {
		page, resp, err := c.client.PullRequests.ListCommits(ctx, repo.Owner, repo.Name, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list commits for %s#%d: %w", repo.FullName(), number, err)
		}

		for _, rc := range page {
			commits = append(commits, model.Commit{
				SHA:    rc.GetSHA(),
				Author: toAccount(rc.GetAuthor()),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return commits, nil
}

// CreateComment posts an issue comment on a pull request.
func (c *Client) CreateComment(ctx context.Context, repo model.Repository, number int, body string) error {
	_, _, err := c.client.Issues.CreateComment(ctx, repo.Owner, repo.Name, number, &gh.IssueComment{
		Body: gh.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to comment on %s#%d: %w", repo.FullName(), number, err)
	}
	return nil
}

// ClosePullRequest sets the state of a pull request to closed.
func (c *Client) ClosePullRequest(ctx context.Context, repo model.Repository, number int) error {
	_, _, err := c.client.PullRequests.Edit(ctx, repo.Owner, repo.Name, number, &gh.PullRequest{
		State: gh.String(constants.StateClosed),
	})
	if err != nil {
		return fmt.Errorf("failed to close %s#%d: %w", repo.FullName(), number, err)
	}
	return nil
}

func toRepository(r *gh.Repository, org string) model.Repository {
	owner := r.GetOwner().GetLogin()
	if owner == "" {
		owner = org
	}
	return model.Repository{Owner: owner, Name: r.GetName()}
}

func toPullRequest(repo model.Repository, pr *gh.PullRequest) model.PullRequest {
	return model.PullRequest{
		Repo:      repo,
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		HTMLURL:   pr.GetHTMLURL(),
		State:     pr.GetState(),
		Author:    toAccount(pr.GetUser()),
		CreatedAt: pr.GetCreatedAt().Time.UTC(),
	}
}

// toAccount returns nil for a missing user or one without a login.
func toAccount(u *gh.User) *model.Account {
	if u == nil || u.GetLogin() == "" {
		return nil
	}
	return &model.Account{Login: u.GetLogin(), Type: u.GetType()}
}
