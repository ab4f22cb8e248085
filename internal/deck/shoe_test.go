package deck

import (
	"errors"
	"testing"

	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildShoe(t *testing.T) {
	t.Parallel()

	cards := BuildShoe(6)
	require.Len(t, cards, 312)

	counts := make(map[Card]int)
	for _, c := range cards {
		counts[c]++
	}
	assert.Len(t, counts, 52)
	for c, n := range counts {
		assert.Equal(t, 6, n, c.String())
	}
}

func TestNewShoeCutCard(t *testing.T) {
	t.Parallel()

	s := NewShoe(6, randutil.New(1))
	assert.Equal(t, 312, s.Remaining())
	assert.Equal(t, 78, s.CutCard)
	assert.False(t, s.NeedsReshuffle())
	assert.InDelta(t, 6.0, s.DecksRemaining(), 1e-9)
}

func TestShuffleIsPermutation(t *testing.T) {
	t.Parallel()

	cards := BuildShoe(1)
	Shuffle(cards, randutil.New(99))

	seen := make(map[Card]bool)
	for _, c := range cards {
		seen[c] = true
	}
	assert.Len(t, seen, 52)
	assert.NotEqual(t, BuildShoe(1), cards)
}

func TestDrawAndReshuffleThreshold(t *testing.T) {
	t.Parallel()

	s := NewShoe(1, randutil.New(3))
	for s.Remaining() >= s.CutCard && s.Remaining() >= MinCards {
		assert.False(t, s.NeedsReshuffle())
		_, err := s.Draw()
		require.NoError(t, err)
	}
	assert.True(t, s.NeedsReshuffle())
}

func TestStackedShoeOrder(t *testing.T) {
	t.Parallel()

	s := NewStackedShoe(MustParseCards("AsKh2c"))
	for _, want := range MustParseCards("AsKh2c") {
		got, err := s.Draw()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := s.Draw()
	assert.True(t, errors.Is(err, ErrShoeExhausted))
	assert.False(t, s.NeedsReshuffle())
}

func TestShoeCopiesAreIndependent(t *testing.T) {
	t.Parallel()

	a := NewStackedShoe(MustParseCards("AsKh2c"))
	b := a
	_, err := a.Draw()
	require.NoError(t, err)
	assert.Equal(t, 2, a.Remaining())
	assert.Equal(t, 3, b.Remaining())

	first, err := b.Draw()
	require.NoError(t, err)
	assert.Equal(t, MustParseCards("As")[0], first)
}
