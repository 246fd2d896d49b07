package stale

import (
	"testing"
	"time"

	"github.com/spiffcs/prsweep/internal/model"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) time.Time {
	return now.Add(-time.Duration(d) * 24 * time.Hour)
}

func human(login string) *model.Account {
	return &model.Account{Login: login, Type: "User"}
}

func bot(login string) *model.Account {
	return &model.Account{Login: login, Type: model.AccountTypeBot}
}

func TestAgeDays(t *testing.T) {
	tests := []struct {
		name    string
		created time.Time
		want    int
	}{
		{"just created", now, 0},
		{"23 hours", now.Add(-23 * time.Hour), 0},
		{"exactly one day", daysAgo(1), 1},
		{"almost two days", now.Add(-47*time.Hour - 59*time.Minute), 1},
		{"eight days", daysAgo(8), 8},
		{"future timestamp", now.Add(time.Hour), 0},
		{"other zone same instant", daysAgo(3).In(time.FixedZone("UTC+5", 5*3600)), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeDays(now, tt.created))
		})
	}
}

func TestIsAutomated(t *testing.T) {
	tests := []struct {
		login string
		isBot bool
		want  bool
	}{
		{"alice", false, false},
		{"dependabot[bot]", false, true},
		{"Dependabot[Bot]", false, true},
		{"CIBuilder", false, true},
		{"renovate[bot]", true, true},
		{"renovate[bot]", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.login, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAutomated(tt.login, tt.isBot))
		})
	}
}

func TestMentionsHumanAuthor(t *testing.T) {
	pr := model.PullRequest{Author: human("alice")}

	got := Mentions(pr, nil, "admin")

	assert.Equal(t, "@admin @alice", got.String())
	assert.False(t, NeedsCommits(pr))
}

func TestMentionsHumanAuthorIsAdmin(t *testing.T) {
	pr := model.PullRequest{Author: human("admin")}

	got := Mentions(pr, nil, "admin")

	assert.Equal(t, []string{"admin"}, got.Logins())
}

func TestMentionsBotAuthorUsesCommitters(t *testing.T) {
	pr := model.PullRequest{Author: bot("dependabot[bot]")}
	commits := []model.Commit{
		{SHA: "a1", Author: human("bob")},
		{SHA: "a2", Author: human("bob")},
		{SHA: "a3", Author: bot("dependabot[bot]")},
		{SHA: "a4", Author: nil},
		{SHA: "a5", Author: human("CIBUILDER")},
		{SHA: "a6", Author: bot("github-actions[bot]")},
		{SHA: "a7", Author: human("carol")},
	}

	got := Mentions(pr, commits, "admin")

	assert.True(t, NeedsCommits(pr))
	assert.Equal(t, "@admin @bob @carol", got.String())
}

func TestMentionsKnownAutomationLoginWithUserType(t *testing.T) {
	pr := model.PullRequest{Author: human("cibuilder")}
	commits := []model.Commit{{Author: human("dave")}}

	assert.Equal(t, "@admin @dave", Mentions(pr, commits, "admin").String())
}

func TestMentionsMissingAuthor(t *testing.T) {
	pr := model.PullRequest{Author: nil}

	t.Run("with commits", func(t *testing.T) {
		commits := []model.Commit{{Author: human("erin")}}
		assert.Equal(t, "@admin @erin", Mentions(pr, commits, "admin").String())
	})

	t.Run("without commits", func(t *testing.T) {
		assert.Equal(t, "@admin", Mentions(pr, nil, "admin").String())
	})
}

func TestMentionsAlwaysIncludeAdminAndNoEmpties(t *testing.T) {
	prs := []model.PullRequest{
		{Author: human("")},
		{Author: human("zed")},
		{Author: bot("x[bot]")},
		{},
	}
	commits := []model.Commit{{Author: human("")}, {Author: human("amy")}}

	for _, pr := range prs {
		set := Mentions(pr, commits, "admin")
		logins := set.Logins()
		assert.Contains(t, logins, "admin")
		assert.NotContains(t, logins, "")
		assert.Len(t, logins, len(set))
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		age  int
		want Disposition
	}{
		{"fresh", 0, Disposition{}},
		{"just below stale", 1, Disposition{}},
		{"exactly stale", 2, Disposition{Report: true}},
		{"stale", 3, Disposition{Report: true}},
		{"exactly close threshold", 7, Disposition{Report: true}},
		{"past close threshold", 8, Disposition{Report: true, Close: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.age, 2, 7))
		})
	}
}

func TestClassifyIndependentThresholds(t *testing.T) {
	// stale threshold above close threshold: closed without being reported
	d := Classify(6, 10, 5)
	assert.False(t, d.Report)
	assert.True(t, d.Close)
	assert.False(t, d.Ignore())

	assert.True(t, Classify(1, 10, 5).Ignore())
}
