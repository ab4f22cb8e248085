package ledger

import (
	"slices"

	"github.com/lox/blackjack/internal/deck"
)

// PerfectPairs returns the payout multiplier for the first two player cards:
// 25 for a suited pair, 12 for a same-colour pair, 6 for a mixed pair.
func PerfectPairs(cards []deck.Card) int {
	if len(cards) != 2 || cards[0].Rank != cards[1].Rank {
		return 0
	}
	switch {
	case cards[0].Suit == cards[1].Suit:
		return 25
	case cards[0].IsRed() == cards[1].IsRed():
		return 12
	default:
		return 6
	}
}

// TwentyOnePlusThree returns the multiplier for the poker hand made by the
// first two player cards and the dealer upcard.
func TwentyOnePlusThree(cards []deck.Card, upcard deck.Card) int {
	if len(cards) != 2 {
		return 0
	}
	three := []deck.Card{cards[0], cards[1], upcard}
	ranks := []int{int(three[0].Rank), int(three[1].Rank), int(three[2].Rank)}
	slices.Sort(ranks)

	flush := three[0].Suit == three[1].Suit && three[1].Suit == three[2].Suit
	trips := ranks[0] == ranks[1] && ranks[1] == ranks[2]
	straight := (ranks[1] == ranks[0]+1 && ranks[2] == ranks[1]+1) ||
		(ranks[0] == int(deck.Two) && ranks[1] == int(deck.Three) && ranks[2] == int(deck.Ace))

	switch {
	case flush && trips:
		return 100
	case flush && straight:
		return 40
	case trips:
		return 30
	case straight:
		return 10
	case flush:
		return 5
	default:
		return 0
	}
}

// SideBetResult describes how the side bets resolved on the deal.
type SideBetResult struct {
	PairsMultiplier int `json:"pairs_multiplier"`
	PokerMultiplier int `json:"poker_multiplier"`
	Paid            int `json:"paid"`
}

// SettleSideBets resolves the side bets against the first dealt hand and the
// dealer upcard, pays winners to seat 0 and clears both wagers.
func (b *Book) SettleSideBets(first []deck.Card, upcard deck.Card) SideBetResult {
	var res SideBetResult
	if b.Side.Pairs > 0 {
		if m := PerfectPairs(first); m > 0 {
			res.PairsMultiplier = m
			res.Paid += b.Side.Pairs*m + b.Side.Pairs
		}
	}
	if b.Side.Poker > 0 {
		if m := TwentyOnePlusThree(first, upcard); m > 0 {
			res.PokerMultiplier = m
			res.Paid += b.Side.Poker*m + b.Side.Poker
		}
	}
	if res.Paid > 0 && len(b.Seats) > 0 {
		b.Seats[0].Credit(res.Paid)
	}
	b.Side = SideBets{}
	return res
}
