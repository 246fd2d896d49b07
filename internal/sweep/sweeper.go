// Package sweep runs one pass over an organization: it reports stale pull
// requests, closes the ones past the closure threshold and sends the
// resulting notifications.
package sweep

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spiffcs/prsweep/config"
	"github.com/spiffcs/prsweep/internal/constants"
	"github.com/spiffcs/prsweep/internal/log"
	"github.com/spiffcs/prsweep/internal/model"
	"github.com/spiffcs/prsweep/internal/notify"
	"github.com/spiffcs/prsweep/internal/output"
	"github.com/spiffcs/prsweep/internal/stale"
)

// Sweeper orchestrates a run. Repositories and pull requests are processed
// one at a time.
type Sweeper struct {
	cfg      *config.Config
	source   Source
	notifier Notifier
	metrics  Recorder
	now      func() time.Time

	// dryRun, when non-nil, receives the actions that would have been taken.
	dryRun io.Writer
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		s.now = now
	}
}

// WithRecorder sets where run counters go.
func WithRecorder(r Recorder) Option {
	return func(s *Sweeper) {
		s.metrics = r
	}
}

// WithDryRun disables comments and closures; planned actions are written to w.
func WithDryRun(w io.Writer) Option {
	return func(s *Sweeper) {
		s.dryRun = w
	}
}

// New creates a Sweeper.
func New(cfg *config.Config, source Source, notifier Notifier, opts ...Option) *Sweeper {
	s := &Sweeper{
		cfg:      cfg,
		source:   source,
		notifier: notifier,
		metrics:  noopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run scans every repository of the configured organization. A failing
// repository is recorded in the summary and the run moves on. The returned
// error is only set when the repository listing itself fails; the summary
// still holds everything processed up to that point.
func (s *Sweeper) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{Started: s.now().UTC()}

	for repo, err := range s.source.Repos(ctx, s.cfg.Org) {
		if err != nil {
			sum.ListErr = err
			log.Error("failed to list repositories", "org", s.cfg.Org, "error", err)
			return sum, err
		}

		log.Progress("Scanning %s", repo.FullName())
		res := s.processRepo(ctx, repo, sum)
		if res.OK() {
			log.ProgressDone()
		} else {
			log.Error("failed to process repository", "repo", repo.Name, "error", res.Err)
		}
		s.metrics.RepoScanned(!res.OK())
		sum.Repos = append(sum.Repos, res)
	}

	log.Info("scan complete",
		"repositories", len(sum.Repos),
		"failed", sum.Failed(),
		"stale", len(sum.Rows),
		"closed", sum.Closed)
	return sum, nil
}

// processRepo handles every open pull request of repo and stops at the
// first error.
func (s *Sweeper) processRepo(ctx context.Context, repo model.Repository, sum *Summary) RepoResult {
	res := RepoResult{Repo: repo.Name}

	for pr, err := range s.source.OpenPullRequests(ctx, repo) {
		if err != nil {
			res.Err = err
			return res
		}
		res.Scanned++
		s.metrics.PullScanned()

		if err := s.processPull(ctx, pr, sum, &res); err != nil {
			res.Err = err
			return res
		}
	}
	return res
}

func (s *Sweeper) processPull(ctx context.Context, pr model.PullRequest, sum *Summary, res *RepoResult) error {
	age := stale.AgeDays(sum.Started, pr.CreatedAt)
	d := stale.Classify(age, s.cfg.DaysStale, s.cfg.DaysClose)

	log.Trace("pull request", "repo", pr.Repo.Name, "number", pr.Number, "age_days", age, "report", d.Report, "close", d.Close)
	if d.Ignore() {
		return nil
	}

	var commits []model.Commit
	if stale.NeedsCommits(pr) {
		var err error
		commits, err = s.source.Commits(ctx, pr.Repo, pr.Number)
		if err != nil {
			return err
		}
	}
	mentions := stale.Mentions(pr, commits, s.cfg.Admin).String()

	if d.Report {
		sum.Rows = append(sum.Rows, output.Row{
			Repo:     pr.Repo.Name,
			Number:   pr.Number,
			Title:    pr.Title,
			Author:   pr.Author.LoginOrEmpty(),
			Created:  pr.CreatedAt.Format(constants.CreatedDateLayout),
			URL:      pr.HTMLURL,
			Mentions: mentions,
		})
		res.Reported++
		s.metrics.PullStale()
	}

	if d.Close {
		if err := s.closePull(ctx, pr, mentions, sum, res); err != nil {
			return err
		}
	}
	return nil
}

// closePull comments, closes, counts and notifies, in that order.
func (s *Sweeper) closePull(ctx context.Context, pr model.PullRequest, mentions string, sum *Summary, res *RepoResult) error {
	body := ClosureComment(s.cfg.DaysClose, mentions)

	if s.dryRun != nil {
		if _, err := fmt.Fprintf(s.dryRun, "[DRY RUN] Would comment on and close %s#%d (%s)\n", pr.Repo.FullName(), pr.Number, mentions); err != nil {
			return err
		}
	} else {
		if err := s.source.CreateComment(ctx, pr.Repo, pr.Number, body); err != nil {
			return err
		}
		if err := s.source.ClosePullRequest(ctx, pr.Repo, pr.Number); err != nil {
			return err
		}
		log.Info("closed pull request", "repo", pr.Repo.Name, "number", pr.Number, "mentions", mentions)
	}

	sum.Closed++
	res.Closed++
	s.metrics.PullClosed()

	if !s.notifier.Enabled() {
		return nil
	}
	err := s.notifier.NotifyClosure(ctx, notify.Closure{
		Repo:      pr.Repo.Name,
		Number:    pr.Number,
		Title:     pr.Title,
		Author:    pr.Author.LoginOrEmpty(),
		URL:       pr.HTMLURL,
		CreatedAt: pr.CreatedAt,
		Mentions:  mentions,
		DaysClose: s.cfg.DaysClose,
	})
	if err != nil {
		s.metrics.NotifyFailed("closure")
		return err
	}
	return nil
}

// Finish prints the stale table, sends the aggregate report when there is
// anything to report, and prints the closed total.
func (s *Sweeper) Finish(ctx context.Context, w io.Writer, sum *Summary) error {
	table := output.RenderMarkdownTable(sum.Rows)
	if _, err := fmt.Fprintln(w, table); err != nil {
		return err
	}

	if len(sum.Rows) > 0 && s.notifier.Enabled() {
		err := s.notifier.NotifyReport(ctx, notify.Report{
			Mentions:  sum.Mentions(),
			DaysStale: s.cfg.DaysStale,
			Table:     table,
		})
		if err != nil {
			s.metrics.NotifyFailed("report")
			log.Error("failed to send stale report", "error", err)
		}
	}

	_, err := fmt.Fprintf(w, "Total closed PRs: %d\n", sum.Closed)
	return err
}
