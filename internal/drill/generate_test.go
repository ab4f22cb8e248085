package drill

import (
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind  Kind
		check func(t *testing.T, cards []deck.Card)
	}{
		{KindPairs, func(t *testing.T, cards []deck.Card) {
			assert.Equal(t, cards[0].Rank, cards[1].Rank)
		}},
		{KindHard, func(t *testing.T, cards []deck.Card) {
			assert.False(t, cards[0].IsAce() || cards[1].IsAce(), "hard hand holds an ace: %v", cards)
			assert.NotEqual(t, cards[0].Value(), cards[1].Value(), "hard hand is a pair: %v", cards)
			assert.False(t, deck.IsSoft(cards))
		}},
		{KindSoft, func(t *testing.T, cards []deck.Card) {
			assert.True(t, cards[0].IsAce())
			assert.GreaterOrEqual(t, int(cards[1].Rank), int(deck.Two))
			assert.LessOrEqual(t, int(cards[1].Rank), int(deck.Nine))
			assert.True(t, deck.IsSoft(cards))
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			rng := randutil.New(int64(len(tt.kind)))
			for range 500 {
				cards := Generate(rng, tt.kind)
				require.Len(t, cards, 2)
				tt.check(t, cards)
			}
		})
	}
}

func TestGenerateAllCoversEveryCategory(t *testing.T) {
	t.Parallel()

	rng := randutil.New(99)
	seen := map[Category]int{}
	for range 300 {
		cards := Generate(rng, KindAll)
		seen[KeyFor(cards, deck.MustParseCards("7c")[0]).Category]++
	}
	assert.Positive(t, seen[Hard])
	assert.Positive(t, seen[Soft])
	assert.Positive(t, seen[Pair])
}

func TestGenerateIsDeterministic(t *testing.T) {
	t.Parallel()

	a, b := randutil.New(5), randutil.New(5)
	for range 20 {
		assert.Equal(t, Generate(a, KindAll), Generate(b, KindAll))
		assert.Equal(t, DealerHand(a), DealerHand(b))
	}
}

func TestSourceNeverRunsOut(t *testing.T) {
	t.Parallel()

	src := NewSource(randutil.New(1))
	counts := map[deck.Rank]int{}
	for range 2000 {
		counts[src.Draw().Rank]++
	}
	assert.Len(t, counts, len(deck.Ranks))
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	k, err := ParseKind("pairs")
	require.NoError(t, err)
	assert.Equal(t, KindPairs, k)

	_, err = ParseKind("splits")
	assert.Error(t, err)
}
