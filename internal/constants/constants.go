// Package constants provides a centralized location for the fixed values
// and message texts used throughout prsweep.
package constants

import "time"

// Threshold defaults
const (
	// DefaultDaysStale is the age in days at which an open PR is reported.
	DefaultDaysStale = 2

	// DefaultDaysClose is the age in days an open PR must exceed to be closed.
	DefaultDaysClose = 7

	// DefaultAdmin is the GitHub login that is mentioned on every PR.
	DefaultAdmin = "praveenm8816"
)

// HTTP and rate limiting constants
const (
	// DefaultHTTPTimeout bounds every GitHub API and webhook request.
	DefaultHTTPTimeout = 30 * time.Second

	// PageSize is the per_page value used for all list calls.
	PageSize = 100

	// RateLimitLowWatermark is the threshold below which rate limit
	// warnings are logged.
	RateLimitLowWatermark = 100

	// MaxRateLimitRetries is how many times a request hit by a secondary
	// rate limit is replayed before giving up.
	MaxRateLimitRetries = 3

	// InitialBackoff is the first wait when a rate limited response carries
	// no Retry-After or reset header.
	InitialBackoff = time.Second

	// MaxBackoff caps any single rate limit wait.
	MaxBackoff = 60 * time.Second
)

// KnownAutomationLogins are committer logins treated as bots regardless of
// their account type. Matching is case-insensitive.
var KnownAutomationLogins = []string{
	"cibuilder",
	"dependabot[bot]",
}

// Pull request state constants
const (
	// StateOpen indicates a PR is open.
	StateOpen = "open"

	// StateClosed indicates a PR is closed.
	StateClosed = "closed"
)

// Date layouts
const (
	// CreatedDateLayout is used for the Created column of the report table.
	CreatedDateLayout = "2006-01-02"

	// CreatedTimestampLayout is used in the closure card.
	CreatedTimestampLayout = "2006-01-02 15:04:05"
)
