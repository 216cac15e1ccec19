package responder

import (
	"sort"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Matcher finds which pattern of an ordered table a text belongs to.
// All keywords share one Aho-Corasick automaton, so a message is scanned once
// whatever the size of the table.
type Matcher struct {
	machine *goahocorasick.Machine
	// owner maps a lowercased keyword to the first pattern declaring it
	owner map[string]int
}

// NewMatcher indexes the keywords of patterns. Keywords are lowercased, empty ones are ignored.
func NewMatcher(patterns []Pattern) (*Matcher, error) {
	owner := make(map[string]int)
	for i, pattern := range patterns {
		for _, keyword := range pattern.Keywords {
			k := strings.ToLower(keyword)
			if k == "" {
				continue
			}
			if _, ok := owner[k]; !ok {
				owner[k] = i
			}
		}
	}
	if len(owner) == 0 {
		return &Matcher{owner: owner}, nil
	}

	words := make([]string, 0, len(owner))
	for k := range owner {
		words = append(words, k)
	}
	sort.Strings(words)

	runes := make([][]rune, len(words))
	for i, w := range words {
		runes[i] = []rune(w)
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(runes); err != nil {
		return nil, err
	}
	return &Matcher{machine: m, owner: owner}, nil
}

// Match returns the index of the earliest pattern with a keyword contained in text,
// or -1 when none is. Containment is plain substring search on the lowercased text.
func (m *Matcher) Match(text string) int {
	if m.machine == nil {
		return -1
	}
	content := []rune(strings.ToLower(text))
	if len(content) == 0 {
		return -1
	}

	best := -1
	for _, term := range m.machine.MultiPatternSearch(content, false) {
		idx, ok := m.owner[string(term.Word)]
		if !ok {
			continue
		}
		if best == -1 || idx < best {
			best = idx
		}
		if best == 0 {
			break
		}
	}
	return best
}
