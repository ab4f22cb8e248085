// Package ledger moves money for a blackjack table: seat bankrolls, betting
// spots, side bets, rebet snapshots, the progressive jackpot and the one-time
// risk-free first round.
package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrTableLimitExceeded  = errors.New("table limit exceeded")
	ErrIncompatibleHistory = errors.New("incompatible bet history")
	ErrInvalidBet          = errors.New("invalid bet")
)

// DefaultBankroll is the spending power a new seat starts with.
const DefaultBankroll = 1000

// Seat is a player sitting at the table for the whole session.
type Seat struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	SpendingPower int    `json:"spending_power"`
}

// NewSeat creates a seat with the default bankroll.
func NewSeat(id int) Seat {
	return Seat{ID: id, Name: fmt.Sprintf("Player %d", id+1), SpendingPower: DefaultBankroll}
}

// CanAfford reports whether the seat holds at least amount.
func (s Seat) CanAfford(amount int) bool {
	return s.SpendingPower >= amount
}

// Deduct removes amount from the seat, refusing to go negative.
func (s *Seat) Deduct(amount int) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative amount %d", ErrInvalidBet, amount)
	}
	if !s.CanAfford(amount) {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, s.Name, s.SpendingPower, amount)
	}
	s.SpendingPower -= amount
	return nil
}

// Credit adds amount to the seat.
func (s *Seat) Credit(amount int) {
	if amount > 0 {
		s.SpendingPower += amount
	}
}
