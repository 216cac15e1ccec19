// Package rng holds the random source shared by key generation and bot replies.
// Production code uses Default(); tests inject Seeded or Sequence to get exact outputs.
package rng

import (
	"math/rand/v2"
	"sync"
)

// Source picks an integer in [0, n). Implementations must panic-free handle any n > 0.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Default returns a Source backed by the math/rand/v2 global generator, safe for concurrent use.
func Default() Source {
	return globalSource{}
}

// Seeded returns a deterministic Source. Two sources built with the same seeds produce the same stream.
func Seeded(seed1, seed2 uint64) Source {
	return &lockedSource{r: rand.New(rand.NewPCG(seed1, seed2))}
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// Sequence replays the given values in order, looping when exhausted.
// Each value is reduced modulo n so a script never goes out of range.
func Sequence(values ...int) Source {
	return &sequenceSource{values: values}
}

type sequenceSource struct {
	mu     sync.Mutex
	values []int
	next   int
}

func (s *sequenceSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Pick returns one element of items chosen uniformly through src.
// The zero value is returned for an empty slice.
func Pick[T any](src Source, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[src.IntN(len(items))]
}
