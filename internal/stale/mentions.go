package stale

import (
	"slices"
	"strings"
)

// MentionSet is a de-duplicated set of GitHub logins. Empty logins are
// never stored.
type MentionSet map[string]struct{}

// NewMentionSet returns a set holding the given logins.
func NewMentionSet(logins ...string) MentionSet {
	s := make(MentionSet, len(logins))
	for _, l := range logins {
		s.Add(l)
	}
	return s
}

// Add inserts login unless it is empty.
func (s MentionSet) Add(login string) {
	login = strings.TrimSpace(strings.TrimPrefix(login, "@"))
	if login == "" {
		return
	}
	s[login] = struct{}{}
}

// Logins returns the members in lexicographic order.
func (s MentionSet) Logins() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// String renders the set as "@a @b @c".
func (s MentionSet) String() string {
	logins := s.Logins()
	for i, l := range logins {
		logins[i] = "@" + l
	}
	return strings.Join(logins, " ")
}

// ParseMentions rebuilds a set from a mention string. Tokens without a
// leading "@" are ignored.
func ParseMentions(mentions string) MentionSet {
	s := NewMentionSet()
	for _, tok := range strings.Fields(mentions) {
		if strings.HasPrefix(tok, "@") {
			s.Add(tok)
		}
	}
	return s
}
