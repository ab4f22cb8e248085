package engine

import (
	"fmt"
	"slices"

	"github.com/lox/blackjack/internal/ledger"
)

// AllowedDecks are the shoe sizes a table may be configured with.
var AllowedDecks = []int{1, 2, 4, 6, 8}

// Rules are the table configuration.
type Rules struct {
	Decks            int     `json:"decks" toml:"decks"`
	DealerHitsSoft17 bool    `json:"dealer_hits_soft_17" toml:"dealer_hits_soft_17"`
	SurrenderAllowed bool    `json:"surrender_allowed" toml:"surrender_allowed"`
	BlackjackPayout  float64 `json:"blackjack_payout" toml:"blackjack_payout"`
	MinBet           int     `json:"min_bet" toml:"min_bet"`
	MaxBet           int     `json:"max_bet" toml:"max_bet"`
}

// DefaultRules is a six-deck H17 table paying 3:2 with late surrender.
func DefaultRules() Rules {
	return Rules{
		Decks:            6,
		DealerHitsSoft17: true,
		SurrenderAllowed: true,
		BlackjackPayout:  ledger.DefaultBlackjackPayout,
		MinBet:           10,
		MaxBet:           500,
	}
}

// Validate checks the rules are playable.
func (r Rules) Validate() error {
	if !slices.Contains(AllowedDecks, r.Decks) {
		return fmt.Errorf("decks must be one of %v, got %d", AllowedDecks, r.Decks)
	}
	if r.BlackjackPayout <= 0 {
		return fmt.Errorf("blackjack payout must be positive, got %g", r.BlackjackPayout)
	}
	if r.MinBet <= 0 {
		return fmt.Errorf("min bet must be positive, got %d", r.MinBet)
	}
	if r.MaxBet < r.MinBet {
		return fmt.Errorf("max bet %d is below min bet %d", r.MaxBet, r.MinBet)
	}
	return nil
}

// RulesPatch is a partial rule update; nil fields are left unchanged.
type RulesPatch struct {
	Decks            *int
	DealerHitsSoft17 *bool
	SurrenderAllowed *bool
	BlackjackPayout  *float64
	MinBet           *int
	MaxBet           *int
}

// Apply returns r with the patch's set fields applied.
func (r Rules) Apply(p RulesPatch) Rules {
	if p.Decks != nil {
		r.Decks = *p.Decks
	}
	if p.DealerHitsSoft17 != nil {
		r.DealerHitsSoft17 = *p.DealerHitsSoft17
	}
	if p.SurrenderAllowed != nil {
		r.SurrenderAllowed = *p.SurrenderAllowed
	}
	if p.BlackjackPayout != nil {
		r.BlackjackPayout = *p.BlackjackPayout
	}
	if p.MinBet != nil {
		r.MinBet = *p.MinBet
	}
	if p.MaxBet != nil {
		r.MaxBet = *p.MaxBet
	}
	return r
}
