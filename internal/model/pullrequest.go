// Package model contains domain types for the sweeper.
// These types are independent of any external GitHub library.
package model

import (
	"fmt"
	"time"
)

// AccountTypeBot is the account type GitHub reports for app and bot users.
const AccountTypeBot = "Bot"

// Account is a GitHub user or bot account.
type Account struct {
	Login string
	Type  string // "User", "Bot", "Organization"
}

// IsBot reports whether GitHub flags the account as a bot.
func (a *Account) IsBot() bool {
	return a != nil && a.Type == AccountTypeBot
}

// LoginOrEmpty returns the login, or "" for a nil account.
func (a *Account) LoginOrEmpty() string {
	if a == nil {
		return ""
	}
	return a.Login
}

// Repository identifies a repository within an organization.
type Repository struct {
	Owner string
	Name  string
}

// FullName returns "owner/name".
func (r Repository) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// PullRequest is an open pull request as fetched at the start of a run.
type PullRequest struct {
	Repo    Repository
	Number  int
	Title   string
	HTMLURL string
	State   string

	// Author is nil when the account has been deleted.
	Author *Account

	// CreatedAt is always UTC.
	CreatedAt time.Time
}

// Commit is a single commit on a pull request.
type Commit struct {
	SHA string

	// Author is nil when the commit email is not linked to an account.
	Author *Account
}
