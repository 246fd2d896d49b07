package notify

import (
	"fmt"
	"html"
	"time"

	"github.com/spiffcs/prsweep/internal/constants"
)

const (
	cardType    = "MessageCard"
	cardContext = "http://schema.org/extensions"

	themeClosed = "FF0000"
	themeReport = "0076D7"
)

// MessageCard is the legacy Office 365 connector card accepted by Teams
// incoming webhooks.
type MessageCard struct {
	Type       string    `json:"@type"`
	Context    string    `json:"@context"`
	Summary    string    `json:"summary"`
	ThemeColor string    `json:"themeColor"`
	Title      string    `json:"title"`
	Text       string    `json:"text,omitempty"`
	Sections   []Section `json:"sections,omitempty"`
}

// Section is one block of a MessageCard.
type Section struct {
	ActivityTitle    string `json:"activityTitle"`
	ActivitySubtitle string `json:"activitySubtitle"`
	Facts            []Fact `json:"facts"`
	Markdown         bool   `json:"markdown"`
}

// Fact is a name/value line within a Section.
type Fact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Closure describes one pull request closed by the sweeper.
type Closure struct {
	Repo      string
	Number    int
	Title     string
	Author    string
	URL       string
	CreatedAt time.Time
	Mentions  string
	DaysClose int
}

// Report is the end-of-run aggregate.
type Report struct {
	Mentions  string
	DaysStale int
	Table     string
}

// ClosureCard builds the red card announcing a single closure.
func ClosureCard(c Closure) MessageCard {
	return MessageCard{
		Type:       cardType,
		Context:    cardContext,
		Summary:    "PR Closed Due to Staleness",
		ThemeColor: themeClosed,
		Title:      "Pull Request Closed Automatically",
		Sections: []Section{{
			ActivityTitle: fmt.Sprintf(`PR <a href="%s">#%d</a> has been closed after being open for more than %d days.`,
				html.EscapeString(c.URL), c.Number, c.DaysClose),
			ActivitySubtitle: fmt.Sprintf("Repo: %s | Author: %s", c.Repo, c.Author),
			Facts: []Fact{
				{Name: "Title", Value: c.Title},
				{Name: "Created At", Value: c.CreatedAt.UTC().Format(constants.CreatedTimestampLayout)},
				{Name: "Notified", Value: c.Mentions},
			},
			Markdown: true,
		}},
	}
}

// ReportCard builds the blue card carrying the stale pull request table.
func ReportCard(r Report) MessageCard {
	text := fmt.Sprintf("%s\n\nHere is the list of open PRs older than %d days in the organization:\n\n<pre>%s</pre>",
		r.Mentions, r.DaysStale, r.Table)
	return MessageCard{
		Type:       cardType,
		Context:    cardContext,
		Summary:    "Organization Stale PRs Report",
		ThemeColor: themeReport,
		Title:      "Stale Pull Requests Report",
		Text:       text,
	}
}
