package ledger

import (
	"fmt"
	"slices"
	"time"
)

// NumSpots is the number of betting spots on the felt.
const NumSpots = 3

// JackpotSeedCents seeds the progressive pool at 10,000.
const JackpotSeedCents = 1_000_000

// BetType selects the wager a chip is placed on.
type BetType string

const (
	Main  BetType = "main"
	Pairs BetType = "pairs" // Perfect Pairs
	Poker BetType = "poker" // 21+3
)

// Spot is one betting circle. Chips records every chip placed for display
// reconstruction; Bet is the authoritative amount.
type Spot struct {
	Bet   int   `json:"bet"`
	Chips []int `json:"chips,omitempty"`
	Seat  int   `json:"seat"`
}

// SideBets are table-wide wagers owned by seat 0.
type SideBets struct {
	Pairs int `json:"pairs"`
	Poker int `json:"poker"`
}

// Total returns the sum of both side bets.
func (s SideBets) Total() int {
	return s.Pairs + s.Poker
}

// Snapshot is the wager layout at the last successful deal.
type Snapshot struct {
	Spots     [NumSpots]Spot `json:"spots"`
	Side      SideBets       `json:"side"`
	SeatCount int            `json:"seat_count"`
}

// Bet describes a single chip placement.
type Bet struct {
	Seat   int
	Amount int
	Type   BetType
	Spot   int
}

// Book is the table's money state. It is a value type: Clone returns an
// independent copy so callers can apply changes tentatively.
type Book struct {
	Seats        []Seat         `json:"seats"`
	Spots        [NumSpots]Spot `json:"spots"`
	Side         SideBets       `json:"side"`
	Last         *Snapshot      `json:"last,omitempty"`
	JackpotCents int64          `json:"jackpot_cents"`
	RiskFree     bool           `json:"risk_free"`
	Streak       int            `json:"streak"`
	LastDaily    time.Time      `json:"last_daily"`
}

// NewBook creates a book with n seats at the default bankroll.
func NewBook(n int) Book {
	b := Book{JackpotCents: JackpotSeedCents, RiskFree: true}
	for i := range n {
		b.Seats = append(b.Seats, NewSeat(i))
	}
	return b
}

// Clone returns a deep copy.
func (b Book) Clone() Book {
	out := b
	out.Seats = slices.Clone(b.Seats)
	for i := range out.Spots {
		out.Spots[i].Chips = slices.Clone(b.Spots[i].Chips)
	}
	if b.Last != nil {
		last := *b.Last
		for i := range last.Spots {
			last.Spots[i].Chips = slices.Clone(b.Last.Spots[i].Chips)
		}
		out.Last = &last
	}
	return out
}

// OwnerOf returns the seat that plays a spot: spots are dealt round-robin
// across the seated players.
func OwnerOf(spot, seatCount int) int {
	if seatCount <= 0 {
		return 0
	}
	return spot % seatCount
}

// TotalBet is the sum of main bets on all spots.
func (b Book) TotalBet() int {
	total := 0
	for _, s := range b.Spots {
		total += s.Bet
	}
	return total
}

// Jackpot returns the progressive pool in whole currency units.
func (b Book) Jackpot() float64 {
	return float64(b.JackpotCents) / 100
}

// Seat returns a pointer to seat i or an error when out of range.
func (b *Book) Seat(i int) (*Seat, error) {
	if i < 0 || i >= len(b.Seats) {
		return nil, fmt.Errorf("%w: no seat %d", ErrInvalidBet, i)
	}
	return &b.Seats[i], nil
}

// PlaceBet deducts a chip from its owning seat and records it. Main bets
// are limited per spot by maxBet; side bets always belong to seat 0.
func (b *Book) PlaceBet(bet Bet, maxBet int) error {
	if bet.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidBet)
	}

	seatIdx := bet.Seat
	if bet.Type != Main {
		seatIdx = 0
	}
	seat, err := b.Seat(seatIdx)
	if err != nil {
		return err
	}
	if !seat.CanAfford(bet.Amount) {
		return fmt.Errorf("%w: %s has %d", ErrInsufficientFunds, seat.Name, seat.SpendingPower)
	}

	switch bet.Type {
	case Main:
		if bet.Spot < 0 || bet.Spot >= NumSpots {
			return fmt.Errorf("%w: no spot %d", ErrInvalidBet, bet.Spot)
		}
		spot := &b.Spots[bet.Spot]
		if spot.Bet > 0 && spot.Seat != seatIdx {
			return fmt.Errorf("%w: spot %d belongs to seat %d", ErrInvalidBet, bet.Spot, spot.Seat)
		}
		if spot.Bet+bet.Amount > maxBet {
			return fmt.Errorf("%w: spot %d max is %d", ErrTableLimitExceeded, bet.Spot, maxBet)
		}
		if err := seat.Deduct(bet.Amount); err != nil {
			return err
		}
		spot.Bet += bet.Amount
		spot.Chips = append(spot.Chips, bet.Amount)
		spot.Seat = seatIdx
	case Pairs, Poker:
		if err := seat.Deduct(bet.Amount); err != nil {
			return err
		}
		if bet.Type == Pairs {
			b.Side.Pairs += bet.Amount
		} else {
			b.Side.Poker += bet.Amount
		}
	default:
		return fmt.Errorf("%w: unknown bet type %q", ErrInvalidBet, bet.Type)
	}

	b.accrueJackpot(bet.Amount)
	return nil
}

// accrueJackpot adds 1% of amount to the pool; the pool is kept in cents so
// the 1% is exact.
func (b *Book) accrueJackpot(amount int) {
	b.JackpotCents += int64(amount)
}

// ClearBets refunds every spot to its seat and the side bets to seat 0,
// returning the total refunded.
func (b *Book) ClearBets() int {
	refunded := 0
	for i := range b.Spots {
		spot := &b.Spots[i]
		if spot.Bet > 0 {
			if seat, err := b.Seat(spot.Seat); err == nil {
				seat.Credit(spot.Bet)
				refunded += spot.Bet
			}
		}
		b.Spots[i] = Spot{}
	}
	if side := b.Side.Total(); side > 0 && len(b.Seats) > 0 {
		b.Seats[0].Credit(side)
		refunded += side
	}
	b.Side = SideBets{}
	return refunded
}

// TakeSnapshot records the current layout for a later ReBet.
func (b *Book) TakeSnapshot() {
	snap := Snapshot{Side: b.Side, SeatCount: len(b.Seats)}
	for i, s := range b.Spots {
		snap.Spots[i] = Spot{Bet: s.Bet, Chips: slices.Clone(s.Chips), Seat: s.Seat}
	}
	b.Last = &snap
}

// ReBet replays the last snapshot. Wagers already on the felt are returned
// first. Either every spot is within maxBet and every seat can afford its
// share and the whole layout is restored, or nothing changes.
func (b *Book) ReBet(maxBet int) error {
	if b.Last == nil {
		return fmt.Errorf("%w: no previous wager", ErrIncompatibleHistory)
	}
	if b.Last.SeatCount != len(b.Seats) {
		return fmt.Errorf("%w: wager was placed with %d seats, table has %d",
			ErrIncompatibleHistory, b.Last.SeatCount, len(b.Seats))
	}

	next := b.Clone()
	next.ClearBets()

	need := make([]int, len(next.Seats))
	for i, s := range next.Last.Spots {
		if s.Bet > maxBet {
			return fmt.Errorf("%w: spot %d max is %d", ErrTableLimitExceeded, i, maxBet)
		}
		if s.Bet > 0 {
			need[s.Seat] += s.Bet
		}
	}
	need[0] += next.Last.Side.Total()

	for i, amount := range need {
		if !next.Seats[i].CanAfford(amount) {
			return fmt.Errorf("%w: %s cannot cover rebet of %d", ErrInsufficientFunds, next.Seats[i].Name, amount)
		}
	}
	for i, amount := range need {
		if err := next.Seats[i].Deduct(amount); err != nil {
			return err
		}
	}
	for i, s := range next.Last.Spots {
		next.Spots[i] = Spot{Bet: s.Bet, Chips: slices.Clone(s.Chips), Seat: s.Seat}
		if s.Bet > 0 {
			next.accrueJackpot(s.Bet)
		}
	}
	next.Side = next.Last.Side
	next.accrueJackpot(next.Side.Total())

	*b = next
	return nil
}

// Resize changes the number of seats. Any wager on the felt is refunded
// first; existing seats keep their bankroll and new seats start fresh.
func (b *Book) Resize(n int) {
	b.ClearBets()
	if n < len(b.Seats) {
		b.Seats = b.Seats[:n]
		return
	}
	for i := len(b.Seats); i < n; i++ {
		b.Seats = append(b.Seats, NewSeat(i))
	}
}

// TakeSpots moves the main bets off the felt for dealing and returns them.
// Side bets stay until SettleSideBets.
func (b *Book) TakeSpots() [NumSpots]Spot {
	spots := b.Spots
	for i := range b.Spots {
		b.Spots[i] = Spot{}
	}
	return spots
}
