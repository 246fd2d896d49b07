package stale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMentionSetString(t *testing.T) {
	tests := []struct {
		name   string
		logins []string
		want   string
	}{
		{"empty", nil, ""},
		{"sorted", []string{"zoe", "adam", "mike"}, "@adam @mike @zoe"},
		{"deduplicated", []string{"bob", "bob", "@bob"}, "@bob"},
		{"empties dropped", []string{"", " ", "amy"}, "@amy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMentionSet(tt.logins...).String())
		})
	}
}

func TestParseMentions(t *testing.T) {
	set := ParseMentions("@bob @admin  plain @bob")

	assert.Equal(t, []string{"admin", "bob"}, set.Logins())
}
