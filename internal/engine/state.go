// Package engine runs a blackjack table. Reduce is a pure function from a
// State and an Action to the next State; Engine wraps it with locking,
// pacing, persistence and a round-end callback.
package engine

import (
	"slices"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/drill"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/strategy"
)

// Phase is the round lifecycle position.
type Phase string

const (
	PhaseBetting    Phase = "betting"
	PhaseDealing    Phase = "dealing"
	PhaseInsurance  Phase = "insurance"
	PhasePlayerTurn Phase = "playerTurn"
	PhaseDealerTurn Phase = "dealerTurn"
	PhaseResolving  Phase = "resolving"
)

// Mode selects real-money play or strategy drills.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeDrill    Mode = "drill"
)

// HandStatus is how far a hand has been played. Every status other than
// StatusPlaying is final.
type HandStatus string

const (
	StatusPlaying   HandStatus = "playing"
	StatusStand     HandStatus = "stand"
	StatusBust      HandStatus = "bust"
	StatusBlackjack HandStatus = "blackjack"
	StatusSurrender HandStatus = "surrender"
)

// Result is the settled outcome of a hand; empty until settlement, except
// for a surrender which is a loss immediately.
type Result string

const (
	ResultNone Result = ""
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultPush Result = "push"
)

// SettleReason records why a round ended early.
type SettleReason string

const (
	ReasonNone     SettleReason = ""
	ReasonDealerBJ SettleReason = "dealerBJ"
)

// Hand is one player hand. Seat owns the hand's money; Spot is the betting
// circle it was dealt from.
type Hand struct {
	ID      int         `json:"id"`
	Cards   []deck.Card `json:"cards"`
	Bet     int         `json:"bet"`
	Status  HandStatus  `json:"status"`
	Result  Result      `json:"result,omitempty"`
	Spot    int         `json:"spot"`
	Seat    int         `json:"seat"`
	Payout  int         `json:"payout"`
	Doubled bool        `json:"doubled,omitempty"`
	Split   bool        `json:"split,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Score returns the best total of the hand.
func (h Hand) Score() int { return deck.Score(h.Cards) }

// Done reports whether the hand takes no further action.
func (h Hand) Done() bool { return h.Status != StatusPlaying }

// HistoryEntry aggregates one seat's hands for one settled round.
type HistoryEntry struct {
	RoundID  string `json:"round_id"`
	Round    int    `json:"round"`
	Seat     int    `json:"seat"`
	Result   Result `json:"result"`
	Wagered  int    `json:"wagered"`
	Returned int    `json:"returned"`
}

// Net is what the seat won or lost on the round.
func (e HistoryEntry) Net() int { return e.Returned - e.Wagered }

// HistoryLimit is how many rounds are kept per seat.
const HistoryLimit = 10

// State is the complete table. It is a value: Reduce never modifies the
// State it is given.
type State struct {
	Seed  int64      `json:"seed"`
	Rules Rules      `json:"rules"`
	Mode  Mode       `json:"mode"`
	Drill drill.Kind `json:"drill"`
	Phase Phase      `json:"phase"`

	Book  ledger.Book      `json:"book"`
	Shoe  deck.Shoe        `json:"shoe"`
	Count strategy.Counter `json:"count"`

	// Stream counters for randutil.Derive; each shuffle and each drill card
	// consumes one value.
	Shuffles   uint64 `json:"shuffles"`
	DrillDraws uint64 `json:"drill_draws"`

	RoundID      string               `json:"round_id,omitempty"`
	Round        int                  `json:"round"`
	Hands        []Hand               `json:"hands,omitempty"`
	Dealer       []deck.Card          `json:"dealer,omitempty"`
	HoleRevealed bool                 `json:"hole_revealed"`
	Current      int                  `json:"current"`
	NextHandID   int                  `json:"next_hand_id"`
	Insurance    int                  `json:"insurance"`
	SideBets     ledger.SideBetResult `json:"side_bets"`
	Reason       SettleReason         `json:"reason,omitempty"`
	NetPayout    int                  `json:"net_payout"`
	RiskFreePaid int                  `json:"risk_free_paid"`
	StreakPaid   int                  `json:"streak_paid"`
	History      []HistoryEntry       `json:"history,omitempty"`
	Stats        drill.Stats          `json:"stats"`

	Message string `json:"message,omitempty"`
	Mistake string `json:"mistake,omitempty"`

	// Events emitted by the action that produced this state.
	Events []Event `json:"-"`
}

// NewState returns a table in the betting phase with a freshly shuffled shoe.
func NewState(seed int64, rules Rules, seats int) State {
	s := State{
		Seed:  seed,
		Rules: rules,
		Mode:  ModeStandard,
		Drill: drill.KindAll,
		Phase: PhaseBetting,
		Book:  ledger.NewBook(seats),
		Stats: drill.Stats{},
	}
	s.reshuffle()
	s.Events = nil
	return s
}

// Clone returns a deep copy. The shoe is shared: draws reslice and rebuilds
// allocate, so neither copy can observe the other's changes.
func (s State) Clone() State {
	out := s
	out.Book = s.Book.Clone()
	out.Hands = slices.Clone(s.Hands)
	for i := range out.Hands {
		out.Hands[i].Cards = slices.Clone(s.Hands[i].Cards)
	}
	out.Dealer = slices.Clone(s.Dealer)
	out.History = slices.Clone(s.History)
	out.Stats = s.Stats.Clone()
	out.Events = slices.Clone(s.Events)
	return out
}

// Active returns the hand being played, if any.
func (s State) Active() (Hand, bool) {
	if s.Phase != PhasePlayerTurn || s.Current < 0 || s.Current >= len(s.Hands) {
		return Hand{}, false
	}
	return s.Hands[s.Current], true
}

// Upcard returns the dealer's visible card.
func (s State) Upcard() (deck.Card, bool) {
	if len(s.Dealer) == 0 {
		return deck.Card{}, false
	}
	return s.Dealer[0], true
}

// VisibleDealer returns the dealer cards the player can see.
func (s State) VisibleDealer() []deck.Card {
	if s.HoleRevealed || len(s.Dealer) < 2 {
		return s.Dealer
	}
	return s.Dealer[:1]
}

// DealerScore is the total of the dealer cards the player can see.
func (s State) DealerScore() int {
	return deck.Score(s.VisibleDealer())
}

// Advice returns the basic-strategy move for the active hand.
func (s State) Advice() (strategy.Move, bool) {
	h, ok := s.Active()
	if !ok {
		return 0, false
	}
	up, _ := s.Upcard()
	return strategy.Recommend(h.Cards, up), true
}

// TrueCount is the running count normalised by the decks left in the shoe.
func (s State) TrueCount() int {
	return s.Count.TrueCount(s.Shoe.DecksRemaining())
}

// SeatHistory returns the recorded rounds of one seat, newest first.
func (s State) SeatHistory(seat int) []HistoryEntry {
	var out []HistoryEntry
	for _, e := range s.History {
		if e.Seat == seat {
			out = append(out, e)
		}
	}
	return out
}

func (s *State) reshuffle() {
	rng := randutil.Derive(s.Seed, s.Shuffles)
	s.Shuffles++
	s.Shoe = deck.NewShoe(s.Rules.Decks, rng)
	s.Count.Reset()
	s.emit(Event{Kind: EventShuffle})
}

func (s *State) emit(ev Event) {
	s.Events = append(s.Events, ev)
}
