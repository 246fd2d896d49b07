package sweep

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/spiffcs/prsweep/internal/model"
	"github.com/spiffcs/prsweep/internal/notify"
)

var errBoom = errors.New("boom")

type commentCall struct {
	repo   string
	number int
	body   string
}

// fakeSource serves canned repositories, pull requests and commits and
// records every write.
type fakeSource struct {
	repos   []model.Repository
	listErr error
	pulls   map[string][]model.PullRequest
	pullErr map[string]error
	commits map[int][]model.Commit

	commitErr  error
	commentErr error
	closeErr   error

	commitCalls []int
	comments    []commentCall
	closed      []int
	calls       []string
}

func (f *fakeSource) Repos(_ context.Context, _ string) iter.Seq2[model.Repository, error] {
	return func(yield func(model.Repository, error) bool) {
		for _, r := range f.repos {
			if !yield(r, nil) {
				return
			}
		}
		if f.listErr != nil {
			yield(model.Repository{}, f.listErr)
		}
	}
}

func (f *fakeSource) OpenPullRequests(_ context.Context, repo model.Repository) iter.Seq2[model.PullRequest, error] {
	return func(yield func(model.PullRequest, error) bool) {
		if err := f.pullErr[repo.Name]; err != nil {
			yield(model.PullRequest{}, err)
			return
		}
		for _, pr := range f.pulls[repo.Name] {
			pr.Repo = repo
			if !yield(pr, nil) {
				return
			}
		}
	}
}

func (f *fakeSource) Commits(_ context.Context, _ model.Repository, number int) ([]model.Commit, error) {
	f.commitCalls = append(f.commitCalls, number)
	if f.commitErr != nil {
		return nil, f.commitErr
	}
	return f.commits[number], nil
}

func (f *fakeSource) CreateComment(_ context.Context, repo model.Repository, number int, body string) error {
	f.calls = append(f.calls, "comment")
	if f.commentErr != nil {
		return f.commentErr
	}
	f.comments = append(f.comments, commentCall{repo: repo.Name, number: number, body: body})
	return nil
}

func (f *fakeSource) ClosePullRequest(_ context.Context, _ model.Repository, number int) error {
	f.calls = append(f.calls, "close")
	if f.closeErr != nil {
		return f.closeErr
	}
	f.closed = append(f.closed, number)
	return nil
}

type fakeNotifier struct {
	enabled    bool
	closureErr error
	reportErr  error

	closures []notify.Closure
	reports  []notify.Report
}

func (n *fakeNotifier) Enabled() bool { return n.enabled }

func (n *fakeNotifier) NotifyClosure(_ context.Context, c notify.Closure) error {
	if !n.enabled {
		panic("NotifyClosure called on disabled notifier")
	}
	n.closures = append(n.closures, c)
	return n.closureErr
}

func (n *fakeNotifier) NotifyReport(_ context.Context, r notify.Report) error {
	if !n.enabled {
		panic("NotifyReport called on disabled notifier")
	}
	n.reports = append(n.reports, r)
	return n.reportErr
}

type countingRecorder struct {
	repos, repoErrors, scanned, stale, closed int
	notifyFailures                            map[string]int
}

func (r *countingRecorder) RepoScanned(failed bool) {
	r.repos++
	if failed {
		r.repoErrors++
	}
}
func (r *countingRecorder) PullScanned() { r.scanned++ }
func (r *countingRecorder) PullStale()   { r.stale++ }
func (r *countingRecorder) PullClosed()  { r.closed++ }
func (r *countingRecorder) NotifyFailed(kind string) {
	if r.notifyFailures == nil {
		r.notifyFailures = map[string]int{}
	}
	r.notifyFailures[kind]++
}

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func createdDaysAgo(d int) time.Time {
	return testNow.Add(-time.Duration(d) * 24 * time.Hour)
}

func human(login string) *model.Account {
	return &model.Account{Login: login, Type: "User"}
}

func bot(login string) *model.Account {
	return &model.Account{Login: login, Type: model.AccountTypeBot}
}
