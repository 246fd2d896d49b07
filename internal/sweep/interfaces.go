package sweep

import (
	"context"
	"iter"

	"github.com/spiffcs/prsweep/internal/model"
	"github.com/spiffcs/prsweep/internal/notify"
)

// Source is the subset of the GitHub API the sweeper reads from and writes to.
type Source interface {
	Repos(ctx context.Context, org string) iter.Seq2[model.Repository, error]
	OpenPullRequests(ctx context.Context, repo model.Repository) iter.Seq2[model.PullRequest, error]
	Commits(ctx context.Context, repo model.Repository, number int) ([]model.Commit, error)
	CreateComment(ctx context.Context, repo model.Repository, number int, body string) error
	ClosePullRequest(ctx context.Context, repo model.Repository, number int) error
}

// Notifier delivers closure and report cards.
type Notifier interface {
	Enabled() bool
	NotifyClosure(ctx context.Context, c notify.Closure) error
	NotifyReport(ctx context.Context, r notify.Report) error
}

// Recorder receives run counters.
type Recorder interface {
	RepoScanned(failed bool)
	PullScanned()
	PullStale()
	PullClosed()
	NotifyFailed(kind string)
}

type noopRecorder struct{}

func (noopRecorder) RepoScanned(bool)    {}
func (noopRecorder) PullScanned()        {}
func (noopRecorder) PullStale()          {}
func (noopRecorder) PullClosed()         {}
func (noopRecorder) NotifyFailed(string) {}
