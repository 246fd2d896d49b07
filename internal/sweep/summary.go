package sweep

import (
	"time"

	"github.com/spiffcs/prsweep/internal/output"
)

// RepoResult is the outcome of processing one repository. Err is set when
// processing stopped early; counts cover what happened before that.
type RepoResult struct {
	Repo     string
	Scanned  int
	Reported int
	Closed   int
	Err      error
}

// OK reports whether the repository was processed completely.
func (r RepoResult) OK() bool {
	return r.Err == nil
}

// Summary is everything a run produced.
type Summary struct {
	Started time.Time

	// Rows are the stale pull requests in enumeration order.
	Rows []output.Row

	// Closed counts pull requests actually closed (or, in a dry run, that
	// would have been).
	Closed int

	Repos []RepoResult

	// ListErr is set when the repository listing itself failed.
	ListErr error
}

// Failed returns how many repositories ended with an error.
func (s *Summary) Failed() int {
	n := 0
	for _, r := range s.Repos {
		if !r.OK() {
			n++
		}
	}
	return n
}

// Mentions returns the union of every row's mentions.
func (s *Summary) Mentions() string {
	return output.MentionUnion(s.Rows)
}

// Report converts the summary into its machine-readable form.
func (s *Summary) Report(org string, dryRun bool) output.RunReport {
	report := output.RunReport{
		Org:     org,
		Started: s.Started,
		DryRun:  dryRun,
		Closed:  s.Closed,
		Stale:   s.Rows,
	}
	for _, r := range s.Repos {
		status := output.RepoStatus{
			Repo:     r.Repo,
			Scanned:  r.Scanned,
			Reported: r.Reported,
			Closed:   r.Closed,
		}
		if r.Err != nil {
			status.Error = r.Err.Error()
		}
		report.Repos = append(report.Repos, status)
	}
	if s.ListErr != nil {
		report.ListErr = s.ListErr.Error()
	}
	return report
}
