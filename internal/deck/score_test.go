package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cards string
		score int
		soft  bool
	}{
		{"hard 20", "KsQh", 20, false},
		{"soft 17", "As6h", 17, true},
		{"blackjack", "AsKh", 21, true},
		{"pair of aces", "AsAh", 12, true},
		{"ace reduced once", "As6h9c", 16, false},
		{"two aces one reduced", "AsAh9c", 21, true},
		{"three aces", "AsAhAc", 13, true},
		{"bust", "KsQh5c", 25, false},
		{"ace forced to one", "AsKhQc", 21, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cards := MustParseCards(tt.cards)
			assert.Equal(t, tt.score, Score(cards))
			assert.Equal(t, tt.soft, IsSoft(cards))
		})
	}
}

func TestScoreNeverOver21WhenReducible(t *testing.T) {
	t.Parallel()

	// Whenever an Ace could still be reduced the total must be at most 21.
	for _, r1 := range Ranks {
		for _, r2 := range Ranks {
			for _, r3 := range Ranks {
				cards := []Card{NewCard(Spades, r1), NewCard(Hearts, r2), NewCard(Clubs, r3)}
				if IsSoft(cards) {
					assert.LessOrEqual(t, Score(cards), 21, "%v", cards)
				}
			}
		}
	}
}

func TestIsBlackjackAndPair(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBlackjack(MustParseCards("AsTd")))
	assert.False(t, IsBlackjack(MustParseCards("As5d5c")))
	assert.True(t, IsPair(MustParseCards("KsTd")))
	assert.True(t, IsPair(MustParseCards("8s8d")))
	assert.False(t, IsPair(MustParseCards("8s9d")))
	assert.False(t, IsPair(MustParseCards("8s8d8c")))
}
