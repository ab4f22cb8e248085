package strategy

import (
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/stretchr/testify/assert"
)

func TestHiLo(t *testing.T) {
	t.Parallel()

	for _, r := range deck.Ranks {
		c := deck.NewCard(deck.Spades, r)
		want := -1
		switch {
		case r <= deck.Six:
			want = 1
		case r <= deck.Nine:
			want = 0
		}
		assert.Equal(t, want, HiLo(c), c.String())
	}
}

func TestCounterSequence(t *testing.T) {
	t.Parallel()

	var c Counter
	c.Observe(deck.MustParseCards("4s9hKd")...)
	assert.Equal(t, 0, c.Running)
	assert.Equal(t, 3, c.Seen)

	c.Reset()
	assert.Equal(t, Counter{}, c)
}

func TestTrueCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		running int
		cards   int
		want    int
	}{
		{"less than a deck divides by one", 5, 20, 5},
		{"two decks", 6, 104, 3},
		{"rounds half up", 6, 208, 2},
		{"negative half rounds toward zero", -5, 104, -2},
		{"empty shoe", 3, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := Counter{Running: tt.running}
			shoe := deck.NewStackedShoe(make([]deck.Card, tt.cards))
			assert.Equal(t, tt.want, c.TrueCount(shoe.DecksRemaining()))
		})
	}
}
