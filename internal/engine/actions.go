package engine

import (
	"time"

	"github.com/lox/blackjack/internal/drill"
	"github.com/lox/blackjack/internal/ledger"
)

// Action is a request to change the table. The concrete types below are the
// complete set.
type Action interface {
	actionName() string
}

// PlaceBet puts a chip on a spot or a side bet. Main bets are charged to the
// seat that plays the spot; side bets to seat 0.
type PlaceBet struct {
	Amount int
	Type   ledger.BetType
	Spot   int
}

type ClearBets struct{}

// ReBet replays the wagers of the last dealt round.
type ReBet struct{}

// DealGame starts a round. From the resolving phase it first replays the
// previous wager. RoundID is recorded in history when set.
type DealGame struct {
	RoundID string
}

// The player actions apply to the active hand. A non-zero HandID must name
// that hand or the action is rejected.
type (
	Hit        struct{ HandID int }
	Stand      struct{ HandID int }
	DoubleDown struct{ HandID int }
	Split      struct{ HandID int }
	Surrender  struct{ HandID int }
)

// ResolveInsurance answers the insurance offer made when the dealer shows
// an Ace.
type ResolveInsurance struct {
	Buy bool
}

// ResetGame abandons the round and returns to betting.
type ResetGame struct{}

type UpdateRules struct {
	Patch RulesPatch
}

// SetPlayerCount seats between one and three players.
type SetPlayerCount struct {
	N int
}

type SetGameMode struct {
	Mode Mode
}

type SetDrillType struct {
	Kind drill.Kind
}

// ClaimDailyBonus credits the daily bonus if a day has passed since the last
// claim. Now is supplied by the caller to keep Reduce deterministic.
type ClaimDailyBonus struct {
	Now time.Time
}

func (PlaceBet) actionName() string         { return "place_bet" }
func (ClearBets) actionName() string        { return "clear_bets" }
func (ReBet) actionName() string            { return "rebet" }
func (DealGame) actionName() string         { return "deal" }
func (Hit) actionName() string              { return "hit" }
func (Stand) actionName() string            { return "stand" }
func (DoubleDown) actionName() string       { return "double" }
func (Split) actionName() string            { return "split" }
func (Surrender) actionName() string        { return "surrender" }
func (ResolveInsurance) actionName() string { return "insurance" }
func (ResetGame) actionName() string        { return "reset" }
func (UpdateRules) actionName() string      { return "update_rules" }
func (SetPlayerCount) actionName() string   { return "set_player_count" }
func (SetGameMode) actionName() string      { return "set_game_mode" }
func (SetDrillType) actionName() string     { return "set_drill_type" }
func (ClaimDailyBonus) actionName() string  { return "claim_daily_bonus" }
