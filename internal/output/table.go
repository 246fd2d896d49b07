// Package output renders the stale pull request report.
package output

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spiffcs/prsweep/internal/stale"
)

// ansiRegex matches ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Row is one stale pull request in the report. Rows keep enumeration order.
type Row struct {
	Repo     string `json:"repo"`
	Number   int    `json:"number"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Created  string `json:"created"`
	URL      string `json:"url"`
	Mentions string `json:"mentions"`
}

// Headers are the report columns, in order. The mention string is not a column.
var Headers = []string{"Repo", "#", "Title", "Author", "Created", "Link"}

type align int

const (
	alignLeft align = iota
	alignRight
)

var columnAlign = []align{alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignLeft}

func (r Row) cells() []string {
	return []string{
		escapeCell(r.Repo),
		strconv.Itoa(r.Number),
		escapeCell(r.Title),
		escapeCell(r.Author),
		escapeCell(r.Created),
		escapeCell(r.URL),
	}
}

// escapeCell keeps a cell on one line and stops it from opening a new column.
func escapeCell(s string) string {
	s = ansiRegex.ReplaceAllString(s, "")
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "|", `\|`).Replace(s)
	return s
}

// displayWidth returns the visible width of a string in terminal columns,
// counting wide characters such as emoji as two.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

func pad(s string, width int, a align) string {
	gap := width - displayWidth(s)
	if gap <= 0 {
		return s
	}
	if a == alignRight {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// MarkdownTable writes rows as a GitHub-flavoured markdown table. With no
// rows only the header and separator lines are written.
func MarkdownTable(w io.Writer, rows []Row) error {
	cells := make([][]string, len(rows))
	widths := make([]int, len(Headers))
	for i, h := range Headers {
		widths[i] = displayWidth(h)
	}
	for i, r := range rows {
		cells[i] = r.cells()
		for j, c := range cells[i] {
			widths[j] = max(widths[j], displayWidth(c))
		}
	}

	writeLine := func(values []string) error {
		var b strings.Builder
		b.WriteString("|")
		for j, v := range values {
			b.WriteString(" ")
			b.WriteString(pad(v, widths[j], columnAlign[j]))
			b.WriteString(" |")
		}
		_, err := fmt.Fprintln(w, b.String())
		return err
	}

	if err := writeLine(Headers); err != nil {
		return err
	}

	var sep strings.Builder
	sep.WriteString("|")
	for _, width := range widths {
		sep.WriteString(strings.Repeat("-", width+2))
		sep.WriteString("|")
	}
	if _, err := fmt.Fprintln(w, sep.String()); err != nil {
		return err
	}

	for _, c := range cells {
		if err := writeLine(c); err != nil {
			return err
		}
	}
	return nil
}

// RenderMarkdownTable is MarkdownTable into a string, without the trailing newline.
func RenderMarkdownTable(rows []Row) string {
	var b strings.Builder
	_ = MarkdownTable(&b, rows)
	return strings.TrimRight(b.String(), "\n")
}

// MentionUnion returns every login mentioned across rows, de-duplicated and
// sorted, rendered as a mention string.
func MentionUnion(rows []Row) string {
	all := stale.NewMentionSet()
	for _, r := range rows {
		for login := range stale.ParseMentions(r.Mentions) {
			all.Add(login)
		}
	}
	return all.String()
}
