// Package drill produces synthetic training hands and tracks how often the
// player's decisions agree with basic strategy.
package drill

import (
	"fmt"
	"math/rand/v2"

	"github.com/lox/blackjack/internal/deck"
)

// Kind selects the shape of generated player hands.
type Kind string

const (
	KindHard  Kind = "hard"
	KindSoft  Kind = "soft"
	KindPairs Kind = "pairs"
	KindAll   Kind = "all"
)

// ParseKind validates a drill type name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindHard, KindSoft, KindPairs, KindAll:
		return k, nil
	default:
		return "", fmt.Errorf("unknown drill type %q (want hard, soft, pairs or all)", s)
	}
}

// Source deals cards as if from an infinite number of decks: every card is
// drawn independently, so it never runs out and never needs a reshuffle.
type Source struct {
	rng *rand.Rand
}

// NewSource wraps rng as an unlimited card source.
func NewSource(rng *rand.Rand) *Source {
	return &Source{rng: rng}
}

// Draw returns the next card.
func (s *Source) Draw() deck.Card {
	return randomCard(s.rng)
}

func randomCard(rng *rand.Rand) deck.Card {
	return deck.NewCard(deck.Suits[rng.IntN(len(deck.Suits))], deck.Ranks[rng.IntN(len(deck.Ranks))])
}

func withRank(rng *rand.Rand, r deck.Rank) deck.Card {
	return deck.NewCard(deck.Suits[rng.IntN(len(deck.Suits))], r)
}

// Generate returns a two-card player hand of the requested kind. Hard hands
// never hold an Ace or two cards of equal value; soft hands are an Ace with a
// 2 through 9; pairs are two cards of the same rank. KindAll picks one of the
// three categories uniformly first.
func Generate(rng *rand.Rand, kind Kind) []deck.Card {
	if kind == KindAll {
		kind = [...]Kind{KindHard, KindSoft, KindPairs}[rng.IntN(3)]
	}

	switch kind {
	case KindSoft:
		side := deck.Ranks[rng.IntN(8)] // Two..Nine
		return []deck.Card{withRank(rng, deck.Ace), withRank(rng, side)}
	case KindPairs:
		r := deck.Ranks[rng.IntN(len(deck.Ranks))]
		return []deck.Card{withRank(rng, r), withRank(rng, r)}
	default:
		nonAce := deck.Ranks[:len(deck.Ranks)-1]
		first := nonAce[rng.IntN(len(nonAce))]
		for {
			second := nonAce[rng.IntN(len(nonAce))]
			if second.Value() != first.Value() {
				return []deck.Card{withRank(rng, first), withRank(rng, second)}
			}
		}
	}
}

// DealerHand returns an upcard and a hole card drawn independently.
func DealerHand(rng *rand.Rand) []deck.Card {
	return []deck.Card{randomCard(rng), randomCard(rng)}
}
