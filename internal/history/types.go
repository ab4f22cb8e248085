// Package history records settled rounds as TOML so a session can be
// replayed or audited later.
package history

import (
	"fmt"
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/engine"
	"github.com/lox/blackjack/internal/roundid"
)

// Round is one settled round.
type Round struct {
	ID        string       `toml:"round"`
	Number    int          `toml:"number"`
	Time      time.Time    `toml:"time,omitempty"`
	Seed      int64        `toml:"seed"`
	Rules     engine.Rules `toml:"rules"`
	Dealer    []deck.Card  `toml:"dealer"`
	DealerSum int          `toml:"dealer_total"`
	Reason    string       `toml:"reason,omitempty"`
	Insurance int          `toml:"insurance,omitempty"`
	SidePaid  int          `toml:"side_bets_paid,omitempty"`
	Net       int          `toml:"net"`
	Streak    int          `toml:"streak_bonus,omitempty"`
	Stacks    []int        `toml:"finishing_stacks"`
	Hands     []Hand       `toml:"hands"`
}

// Hand is one player hand within a round.
type Hand struct {
	Spot    int         `toml:"spot"`
	Seat    int         `toml:"seat"`
	Cards   []deck.Card `toml:"cards"`
	Total   int         `toml:"total"`
	Bet     int         `toml:"bet"`
	Payout  int         `toml:"payout"`
	Status  string      `toml:"status"`
	Result  string      `toml:"result"`
	Doubled bool        `toml:"doubled,omitempty"`
	Split   bool        `toml:"split,omitempty"`
}

// FromState captures a settled standard round.
func FromState(s engine.State) (*Round, error) {
	if s.Phase != engine.PhaseResolving {
		return nil, fmt.Errorf("history: round is not settled (phase %s)", s.Phase)
	}
	if s.Mode != engine.ModeStandard {
		return nil, fmt.Errorf("history: %s rounds are not recorded", s.Mode)
	}

	r := &Round{
		ID:        s.RoundID,
		Number:    s.Round,
		Seed:      s.Seed,
		Rules:     s.Rules,
		Dealer:    s.Dealer,
		DealerSum: deck.Score(s.Dealer),
		Reason:    string(s.Reason),
		Insurance: s.Insurance,
		SidePaid:  s.SideBets.Paid,
		Net:       s.NetPayout,
		Streak:    s.StreakPaid,
	}
	if t, err := roundid.Time(s.RoundID); err == nil {
		r.Time = t.UTC()
	}
	for _, seat := range s.Book.Seats {
		r.Stacks = append(r.Stacks, seat.SpendingPower)
	}
	for _, h := range s.Hands {
		r.Hands = append(r.Hands, Hand{
			Spot:    h.Spot,
			Seat:    h.Seat,
			Cards:   h.Cards,
			Total:   h.Score(),
			Bet:     h.Bet,
			Payout:  h.Payout,
			Status:  string(h.Status),
			Result:  string(h.Result),
			Doubled: h.Doubled,
			Split:   h.Split,
		})
	}
	return r, nil
}
