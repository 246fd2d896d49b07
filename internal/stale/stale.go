// Package stale decides how old a pull request is, who should hear about it,
// and whether it is reported, closed, or both.
package stale

import (
	"slices"
	"strings"
	"time"

	"github.com/spiffcs/prsweep/internal/constants"
	"github.com/spiffcs/prsweep/internal/model"
)

const day = 24 * time.Hour

// AgeDays returns the number of whole days between created and now, both
// taken in UTC. A creation time in the future yields 0.
func AgeDays(now, created time.Time) int {
	d := now.UTC().Sub(created.UTC())
	if d < 0 {
		return 0
	}
	return int(d / day)
}

// IsAutomated reports whether an account is an automated committer: either
// GitHub flags it as a bot, or its login matches a known automation account.
func IsAutomated(login string, isBot bool) bool {
	if isBot {
		return true
	}
	return slices.ContainsFunc(constants.KnownAutomationLogins, func(known string) bool {
		return strings.EqualFold(known, login)
	})
}

// NeedsCommits reports whether the mention set for pr has to be built from
// its commit authors rather than its author.
func NeedsCommits(pr model.PullRequest) bool {
	return pr.Author == nil || IsAutomated(pr.Author.Login, pr.Author.IsBot())
}

// Mentions returns who to notify about pr. For a human author that is the
// author and admin. For a missing or automated author it is every distinct
// human commit author plus admin.
func Mentions(pr model.PullRequest, commits []model.Commit, admin string) MentionSet {
	set := NewMentionSet(admin)
	if !NeedsCommits(pr) {
		set.Add(pr.Author.Login)
		return set
	}
	for _, c := range commits {
		if c.Author == nil || IsAutomated(c.Author.Login, c.Author.IsBot()) {
			continue
		}
		set.Add(c.Author.Login)
	}
	return set
}

// Disposition is what the sweeper does with a pull request. Report and
// Close are independent.
type Disposition struct {
	Report bool
	Close  bool
}

// Ignore reports whether nothing needs to happen.
func (d Disposition) Ignore() bool {
	return !d.Report && !d.Close
}

// Classify applies the thresholds: reported at or above daysStale, closed
// strictly above daysClose.
func Classify(ageDays, daysStale, daysClose int) Disposition {
	return Disposition{
		Report: ageDays >= daysStale,
		Close:  ageDays > daysClose,
	}
}
