// Package responder produces the scripted replies the bot posts after each user message.
package responder

import (
	"fmt"
	"keyroom/errors"
	"keyroom/rng"
	"log/slog"
	"slices"
)

// Responder picks a canned reply for free text. It is safe for concurrent use
// as long as its rng.Source is.
type Responder struct {
	patterns []Pattern
	defaults []string
	matcher  *Matcher
	src      rng.Source
	log      *slog.Logger
}

// New validates the table and builds the keyword automaton. Every pattern needs at least
// one keyword and none may be empty. The table is copied,
// later changes to the caller's slices have no effect.
func New(table Table, src rng.Source, log *slog.Logger) (*Responder, error) {
	if len(table.Defaults) == 0 {
		return nil, fmt.Errorf("default replies: %w", errors.ErrNoReplies)
	}
	patterns := make([]Pattern, len(table.Patterns))
	for i, p := range table.Patterns {
		if len(p.Keywords) == 0 || slices.Contains(p.Keywords, "") {
			return nil, fmt.Errorf("pattern %d: %w", i, errors.ErrNoKeywords)
		}
		if len(p.Replies) == 0 {
			return nil, fmt.Errorf("pattern %d: %w", i, errors.ErrNoReplies)
		}
		patterns[i] = Pattern{
			Keywords: append([]string(nil), p.Keywords...),
			Replies:  append([]string(nil), p.Replies...),
		}
	}

	matcher, err := NewMatcher(patterns)
	if err != nil {
		return nil, fmt.Errorf("keyword automaton: %w", err)
	}
	if src == nil {
		src = rng.Default()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Responder{
		patterns: patterns,
		defaults: append([]string(nil), table.Defaults...),
		matcher:  matcher,
		src:      src,
		log:      log,
	}, nil
}

// Respond returns a reply of the first pattern whose keywords appear in input,
// or a default reply. It never fails.
func (r *Responder) Respond(input string) string {
	idx := r.matcher.Match(input)
	if idx < 0 {
		r.log.Debug("No pattern matched, using default replies")
		return rng.Pick(r.src, r.defaults)
	}
	r.log.Debug("Pattern matched", "pattern", idx)
	return rng.Pick(r.src, r.patterns[idx].Replies)
}

// Classify exposes the pattern index Respond would use, -1 meaning the default set.
func (r *Responder) Classify(input string) int {
	return r.matcher.Match(input)
}

// Pattern returns a copy of the pattern at idx.
func (r *Responder) Pattern(idx int) (Pattern, bool) {
	if idx < 0 || idx >= len(r.patterns) {
		return Pattern{}, false
	}
	p := r.patterns[idx]
	return Pattern{
		Keywords: append([]string(nil), p.Keywords...),
		Replies:  append([]string(nil), p.Replies...),
	}, true
}
