package responder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatcher_Match(t *testing.T) {
	m, err := NewMatcher([]Pattern{
		{Keywords: []string{"hello", "he"}},
		{Keywords: []string{"she", "hers"}},
		{Keywords: []string{"été"}},
		{Keywords: []string{"", "see you"}},
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "Overlapping keywords keep the earliest pattern", text: "ushers", expected: 0},
		{name: "Suffix of a longer keyword", text: "xshe", expected: 0},
		{name: "Only a later pattern", text: "un été", expected: 2},
		{name: "Keyword with a space", text: "ok SEE YOU", expected: 3},
		{name: "Empty keyword never matches", text: "anything", expected: -1},
		{name: "Empty text", text: "", expected: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, m.Match(tt.text))
		})
	}
}

func TestMatcher_NoKeywords(t *testing.T) {
	m, err := NewMatcher(nil)
	require.NoError(t, err)
	require.Equal(t, -1, m.Match("hello"))
}
