package deck

import (
	"errors"
	"math/rand/v2"
)

const (
	// CardsPerDeck is the size of one standard deck.
	CardsPerDeck = 52
	// MinCards forces a reshuffle regardless of the cut card position.
	MinCards = 20
	// cutCardFraction places the cut card at 25% of the freshly built shoe.
	cutCardFraction = 4
)

// ErrShoeExhausted is returned when a draw is attempted on an empty shoe.
var ErrShoeExhausted = errors.New("shoe exhausted")

// Shoe is the working pool of one or more decks. Cards are consumed from the
// end of the slice. A Shoe value may be copied freely: Draw only reslices and a
// rebuild allocates a new backing array, so copies never observe each other.
type Shoe struct {
	Cards   []Card `json:"cards"`
	Decks   int    `json:"decks"`
	CutCard int    `json:"cut_card"`
}

// BuildShoe returns decks concatenated fresh 52-card decks in suit/rank order.
func BuildShoe(decks int) []Card {
	cards := make([]Card, 0, decks*CardsPerDeck)
	for range decks {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				cards = append(cards, NewCard(suit, rank))
			}
		}
	}
	return cards
}

// Shuffle randomizes cards in place using Fisher-Yates.
func Shuffle(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// NewShoe builds and shuffles a shoe of the given number of decks.
func NewShoe(decks int, rng *rand.Rand) Shoe {
	cards := BuildShoe(decks)
	Shuffle(cards, rng)
	return Shoe{
		Cards:   cards,
		Decks:   decks,
		CutCard: len(cards) / cutCardFraction,
	}
}

// NewStackedShoe returns a shoe that deals cards in exactly the given order.
// Used by tests and replays; the cut card is disabled.
func NewStackedShoe(order []Card) Shoe {
	cards := make([]Card, len(order))
	for i, c := range order {
		cards[len(order)-1-i] = c
	}
	return Shoe{Cards: cards, Decks: 0, CutCard: 0}
}

// Remaining returns the number of undealt cards.
func (s Shoe) Remaining() int {
	return len(s.Cards)
}

// DecksRemaining returns remaining cards expressed in decks.
func (s Shoe) DecksRemaining() float64 {
	return float64(len(s.Cards)) / CardsPerDeck
}

// Stacked reports whether the shoe was scripted rather than built from decks.
func (s Shoe) Stacked() bool {
	return s.Decks == 0
}

// NeedsReshuffle reports whether the shoe must be rebuilt before the next deal.
// Stacked shoes are never reshuffled so scripted rounds stay scripted.
func (s Shoe) NeedsReshuffle() bool {
	if s.Stacked() {
		return false
	}
	return len(s.Cards) < s.CutCard || len(s.Cards) < MinCards
}

// Draw removes and returns the next card.
func (s *Shoe) Draw() (Card, error) {
	n := len(s.Cards)
	if n == 0 {
		return Card{}, ErrShoeExhausted
	}
	card := s.Cards[n-1]
	s.Cards = s.Cards[:n-1]
	return card, nil
}
