package rng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSequence_ReplaysAndWraps(t *testing.T) {
	req := require.New(t)
	src := Sequence(0, 2, 7)

	req.Equal(0, src.IntN(3))
	req.Equal(2, src.IntN(3))
	req.Equal(1, src.IntN(3)) // 7 % 3
	req.Equal(0, src.IntN(3)) // loops back
}

func TestSeeded_IsDeterministic(t *testing.T) {
	req := require.New(t)
	a := Seeded(42, 7)
	b := Seeded(42, 7)
	for i := 0; i < 100; i++ {
		req.Equal(a.IntN(36), b.IntN(36))
	}
}

func TestPick(t *testing.T) {
	req := require.New(t)
	items := []string{"a", "b", "c"}

	req.Equal("c", Pick(Sequence(2), items))
	req.Equal("", Pick(Sequence(2), []string(nil)))

	for i := 0; i < 50; i++ {
		req.Contains(items, Pick(Default(), items))
	}
}
