package engine

import (
	"fmt"

	"github.com/lox/blackjack/internal/drill"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/strategy"
)

// Reduce applies action to state. On success it returns the next state with
// Events describing what happened. On failure it returns state unchanged
// apart from Message, together with the error.
func Reduce(state State, action Action) (State, error) {
	next := state.Clone()
	next.Events = nil
	next.Message = ""

	if err := next.apply(action); err != nil {
		state.Events = nil
		state.Message = userMessage(err)
		return state, err
	}
	return next, nil
}

func (s *State) apply(a Action) error {
	switch a := a.(type) {
	case PlaceBet:
		return s.placeBet(a)
	case ClearBets:
		return s.clearBets()
	case ReBet:
		return s.reBet()
	case DealGame:
		return s.dealGame(a)
	case Hit:
		return s.play(a.HandID, strategy.Hit)
	case Stand:
		return s.play(a.HandID, strategy.Stand)
	case DoubleDown:
		return s.play(a.HandID, strategy.Double)
	case Split:
		return s.play(a.HandID, strategy.Split)
	case Surrender:
		return s.play(a.HandID, strategy.Surrender)
	case ResolveInsurance:
		return s.resolveInsurance(a.Buy)
	case ResetGame:
		return s.resetGame()
	case UpdateRules:
		return s.updateRules(a.Patch)
	case SetPlayerCount:
		return s.setPlayerCount(a.N)
	case SetGameMode:
		return s.setGameMode(a.Mode)
	case SetDrillType:
		return s.setDrillType(a.Kind)
	case ClaimDailyBonus:
		return s.claimDailyBonus(a)
	case nil:
		return invalid("No action")
	default:
		return invalid("Unknown action %T", a)
	}
}

func (s *State) requirePhase(action string, phases ...Phase) error {
	for _, p := range phases {
		if s.Phase == p {
			return nil
		}
	}
	return invalid("Cannot %s during %s", action, s.Phase)
}

func (s *State) requireStandard(action string) error {
	if s.Mode != ModeStandard {
		return invalid("Cannot %s in drill mode", action)
	}
	return nil
}

func (s *State) placeBet(a PlaceBet) error {
	if err := s.requirePhase("place a bet", PhaseBetting); err != nil {
		return err
	}
	if err := s.requireStandard("place a bet"); err != nil {
		return err
	}
	bet := ledger.Bet{
		Seat:   ledger.OwnerOf(a.Spot, len(s.Book.Seats)),
		Amount: a.Amount,
		Type:   a.Type,
		Spot:   a.Spot,
	}
	if bet.Type == "" {
		bet.Type = ledger.Main
	}
	return s.Book.PlaceBet(bet, s.Rules.MaxBet)
}

func (s *State) clearBets() error {
	if err := s.requirePhase("clear bets", PhaseBetting); err != nil {
		return err
	}
	s.Book.ClearBets()
	return nil
}

func (s *State) reBet() error {
	if err := s.requirePhase("rebet", PhaseBetting); err != nil {
		return err
	}
	if err := s.requireStandard("rebet"); err != nil {
		return err
	}
	return s.Book.ReBet(s.Rules.MaxBet)
}

// resetRound discards the dealt round and returns to betting.
func (s *State) resetRound() {
	s.Phase = PhaseBetting
	s.RoundID = ""
	s.Hands = nil
	s.Dealer = nil
	s.HoleRevealed = false
	s.Current = 0
	s.NextHandID = 0
	s.Insurance = 0
	s.SideBets = ledger.SideBetResult{}
	s.Reason = ReasonNone
	s.NetPayout = 0
	s.RiskFreePaid = 0
	s.StreakPaid = 0
	s.Mistake = ""
}

func (s *State) resetGame() error {
	switch s.Phase {
	case PhaseBetting:
		s.Book.ClearBets()
	case PhaseResolving:
	default:
		s.voidRound()
	}
	s.resetRound()
	return nil
}

// voidRound returns the stakes of a round abandoned before settlement.
// Surrendered hands already got their half back and keep the rest lost.
// Insurance is decided at the peek, so a bought stake is already lost by
// the time a round can be voided.
func (s *State) voidRound() {
	if s.Mode != ModeStandard {
		return
	}
	for _, h := range s.Hands {
		if h.Status == StatusSurrender {
			continue
		}
		if seat, err := s.Book.Seat(h.Seat); err == nil {
			seat.Credit(h.Bet)
		}
	}
}

// betweenRounds is true when table settings may change.
func (s *State) betweenRounds(action string) error {
	return s.requirePhase(action, PhaseBetting, PhaseResolving)
}

func (s *State) updateRules(p RulesPatch) error {
	if err := s.betweenRounds("change rules"); err != nil {
		return err
	}
	next := s.Rules.Apply(p)
	if err := next.Validate(); err != nil {
		return invalid("%s", capitalise(err.Error()))
	}
	rebuild := next.Decks != s.Rules.Decks
	s.Rules = next
	if rebuild {
		s.reshuffle()
	}
	return nil
}

func (s *State) setPlayerCount(n int) error {
	if err := s.betweenRounds("change seats"); err != nil {
		return err
	}
	if n < 1 || n > ledger.NumSpots {
		return invalid("Player count must be between 1 and %d", ledger.NumSpots)
	}
	if s.Phase == PhaseResolving {
		s.resetRound()
	}
	s.Book.Resize(n)
	return nil
}

func (s *State) setGameMode(m Mode) error {
	if err := s.betweenRounds("change mode"); err != nil {
		return err
	}
	if m != ModeStandard && m != ModeDrill {
		return invalid("Unknown game mode %q", m)
	}
	if s.Phase == PhaseBetting {
		s.Book.ClearBets()
	}
	s.resetRound()
	s.Mode = m
	return nil
}

func (s *State) setDrillType(k drill.Kind) error {
	if err := s.betweenRounds("change drill type"); err != nil {
		return err
	}
	kind, err := drill.ParseKind(string(k))
	if err != nil {
		return invalid("%s", capitalise(err.Error()))
	}
	s.Drill = kind
	return nil
}

func (s *State) claimDailyBonus(a ClaimDailyBonus) error {
	if err := s.requireStandard("claim the daily bonus"); err != nil {
		return err
	}
	if !s.Book.ClaimDaily(a.Now) {
		next := s.Book.LastDaily.Add(ledger.DailyInterval)
		return invalid("Daily bonus already claimed, next at %s", next.Format("15:04 Jan 2"))
	}
	s.Message = fmt.Sprintf("Daily bonus: +%d", ledger.DailyBonus)
	return nil
}
