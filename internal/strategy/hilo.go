package strategy

import (
	"math"

	"github.com/lox/blackjack/internal/deck"
)

// HiLo returns the Hi-Lo tag of a card: +1 for 2-6, 0 for 7-9, -1 for tens
// and Aces.
func HiLo(c deck.Card) int {
	switch v := c.Value(); {
	case v >= 2 && v <= 6:
		return 1
	case v >= 7 && v <= 9:
		return 0
	default:
		return -1
	}
}

// Counter accumulates the running count over the cards revealed during one
// shoe lifetime.
type Counter struct {
	Running int `json:"running"`
	Seen    int `json:"seen"`
}

// Observe adds revealed cards to the count.
func (c *Counter) Observe(cards ...deck.Card) {
	for _, card := range cards {
		c.Running += HiLo(card)
		c.Seen++
	}
}

// Reset zeroes the count; called whenever the shoe is rebuilt.
func (c *Counter) Reset() {
	c.Running = 0
	c.Seen = 0
}

// TrueCount normalises the running count by the decks left in the shoe,
// never dividing by less than one deck. Halves round up (-2.5 becomes -2).
func (c Counter) TrueCount(decksRemaining float64) int {
	decks := math.Max(1, decksRemaining)
	return int(math.Floor(float64(c.Running)/decks + 0.5))
}
