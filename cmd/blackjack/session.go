package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/drill"
	"github.com/lox/blackjack/internal/engine"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/ledger"
)

const helpText = `Commands:
  bet AMOUNT [SPOT]    place a main bet (spots 1-3, default 1)
  pairs AMOUNT         Perfect Pairs side bet
  poker AMOUNT         21+3 side bet
  clear | rebet        clear or repeat the last bets
  deal                 deal the round (replays the last bet after a round)
  hit, stand, double, split, surrender   (h, s, d, p, r)
  insurance yes|no     answer the insurance offer
  advice               basic-strategy move for the active hand
  reset                abandon the round
  seats N              seat 1-3 players
  rules KEY=VALUE...   decks, h17, surrender, payout, min, max
  mode standard|drill  switch game mode
  drill hard|soft|pairs|all
  daily                claim the daily bonus
  table | heatmap | weak
  quit`

// session is a line-oriented front end to one engine.
type session struct {
	eng    *engine.Engine
	out    io.Writer
	hist   *history.Writer
	logger zerolog.Logger
	round  int
}

func newSession(out io.Writer, hist *history.Writer, logger zerolog.Logger) *session {
	return &session{out: out, hist: hist, logger: logger}
}

func (s *session) prompt() {
	if timer := s.eng.BetTimer(); timer > 0 {
		fmt.Fprintf(s.out, "[%ds] > ", timer)
		return
	}
	fmt.Fprint(s.out, "> ")
}

func (s *session) show() {
	fmt.Fprint(s.out, display.Table(s.eng.State()))
}

// onEvent narrates events as the pacer plays them.
func (s *session) onEvent(ev engine.Event) {
	switch ev.Kind {
	case engine.EventShuffle:
		fmt.Fprintln(s.out, display.InfoStyle.Render("Shuffling the shoe..."))
	case engine.EventHoleReveal:
		fmt.Fprintf(s.out, "Dealer reveals %s\n", display.Card(ev.Card))
	case engine.EventDealerDraw:
		fmt.Fprintf(s.out, "Dealer draws %s\n", display.Card(ev.Card))
	case engine.EventSideBetPaid:
		fmt.Fprintln(s.out, display.SuccessStyle.Render(fmt.Sprintf("Side bet pays %d", ev.Amount)))
	}
}

// exec runs one command line. Rejected actions are reported to the player;
// only cancellation is returned as an error.
func (s *session) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := fields[0], fields[1:]

	var err error
	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
		return false, nil
	case "table":
		s.show()
		return false, nil
	case "heatmap":
		fmt.Fprint(s.out, display.Heatmap(s.eng.State().Stats))
		return false, nil
	case "weak":
		fmt.Fprint(s.out, display.Weakest(s.eng.State().Stats, 5, 3))
		return false, nil
	case "advice":
		if move, ok := s.eng.Advice(); ok {
			fmt.Fprintf(s.out, "Basic strategy: %s\n", move)
		} else {
			fmt.Fprintln(s.out, "No hand to advise on")
		}
		return false, nil
	case "bet":
		err = s.bet(ctx, ledger.Main, args)
	case "pairs":
		err = s.bet(ctx, ledger.Pairs, args)
	case "poker":
		err = s.bet(ctx, ledger.Poker, args)
	case "clear":
		err = s.eng.ClearBets(ctx)
	case "rebet":
		err = s.eng.ReBet(ctx)
	case "deal":
		err = s.eng.DealGame(ctx)
	case "hit", "h":
		err = s.eng.Hit(ctx)
	case "stand", "s":
		err = s.eng.Stand(ctx)
	case "double", "d":
		err = s.eng.DoubleDown(ctx)
	case "split", "p":
		err = s.eng.Split(ctx)
	case "surrender", "r":
		err = s.eng.Surrender(ctx)
	case "insurance":
		err = s.insurance(ctx, args)
	case "reset":
		err = s.eng.ResetGame(ctx)
	case "seats":
		err = s.seats(ctx, args)
	case "rules":
		if len(args) == 0 {
			s.printRules()
			return false, nil
		}
		err = s.rules(ctx, args)
	case "mode":
		if len(args) != 1 {
			err = usage("mode standard|drill")
			break
		}
		err = s.eng.SetGameMode(ctx, engine.Mode(args[0]))
	case "drill":
		if len(args) != 1 {
			err = usage("drill hard|soft|pairs|all")
			break
		}
		err = s.eng.SetDrillType(ctx, drill.Kind(args[0]))
	case "daily":
		err = s.eng.ClaimDailyBonus(ctx)
	default:
		fmt.Fprintf(s.out, "Unknown command %q, type 'help'\n", cmd)
		return false, nil
	}

	return false, s.after(err)
}

// usageError is a malformed command line, reported without touching the
// table.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

func usage(text string) error { return usageError(text) }

// after reports the outcome of an action and records settled rounds.
func (s *session) after(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var u usageError
	if errors.As(err, &u) {
		fmt.Fprintln(s.out, display.WarningStyle.Render(u.Error()))
		return nil
	}

	state := s.eng.State()
	if err != nil {
		s.logger.Debug().Err(err).Msg("Command rejected")
		fmt.Fprintln(s.out, display.ErrorStyle.Render(state.Message))
		return nil
	}

	fmt.Fprint(s.out, display.Table(state))
	if state.Round > s.round {
		s.round = state.Round
		s.record(state)
	}
	return nil
}

func (s *session) record(state engine.State) {
	if s.hist == nil || state.Mode != engine.ModeStandard {
		return
	}
	round, err := history.FromState(state)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Round not recorded")
		return
	}
	if err := s.hist.Append(round); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write history")
	}
}

func (s *session) bet(ctx context.Context, t ledger.BetType, args []string) error {
	if len(args) < 1 || len(args) > 2 || (t != ledger.Main && len(args) != 1) {
		if t == ledger.Main {
			return usage("bet AMOUNT [SPOT]")
		}
		return usage(string(t) + " AMOUNT")
	}
	amount, err := strconv.Atoi(args[0])
	if err != nil {
		return usage("amount must be a whole number")
	}
	spot := 1
	if len(args) == 2 {
		if spot, err = strconv.Atoi(args[1]); err != nil || spot < 1 || spot > ledger.NumSpots {
			return usage(fmt.Sprintf("spot must be 1-%d", ledger.NumSpots))
		}
	}
	return s.eng.PlaceBet(ctx, amount, t, spot-1)
}

func (s *session) insurance(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("insurance yes|no")
	}
	switch args[0] {
	case "yes", "y":
		return s.eng.ResolveInsurance(ctx, true)
	case "no", "n":
		return s.eng.ResolveInsurance(ctx, false)
	default:
		return usage("insurance yes|no")
	}
}

func (s *session) seats(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("seats N")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return usage("seats N")
	}
	return s.eng.SetPlayerCount(ctx, n)
}

func (s *session) printRules() {
	r := s.eng.State().Rules
	fmt.Fprintf(s.out, "decks=%d h17=%t surrender=%t payout=%g min=%d max=%d\n",
		r.Decks, r.DealerHitsSoft17, r.SurrenderAllowed, r.BlackjackPayout, r.MinBet, r.MaxBet)
}

func (s *session) rules(ctx context.Context, args []string) error {
	patch, err := parseRulesPatch(args)
	if err != nil {
		return usage(err.Error())
	}
	return s.eng.UpdateRules(ctx, patch)
}

// parseRulesPatch reads KEY=VALUE pairs into a patch.
func parseRulesPatch(args []string) (engine.RulesPatch, error) {
	var p engine.RulesPatch
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return p, fmt.Errorf("rules: expected KEY=VALUE, got %q", arg)
		}
		switch key {
		case "decks":
			n, err := strconv.Atoi(value)
			if err != nil {
				return p, fmt.Errorf("rules: decks: %w", err)
			}
			p.Decks = &n
		case "h17":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return p, fmt.Errorf("rules: h17: %w", err)
			}
			p.DealerHitsSoft17 = &b
		case "surrender":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return p, fmt.Errorf("rules: surrender: %w", err)
			}
			p.SurrenderAllowed = &b
		case "payout":
			f, err := parsePayout(value)
			if err != nil {
				return p, fmt.Errorf("rules: payout: %w", err)
			}
			p.BlackjackPayout = &f
		case "min":
			n, err := strconv.Atoi(value)
			if err != nil {
				return p, fmt.Errorf("rules: min: %w", err)
			}
			p.MinBet = &n
		case "max":
			n, err := strconv.Atoi(value)
			if err != nil {
				return p, fmt.Errorf("rules: max: %w", err)
			}
			p.MaxBet = &n
		default:
			return p, fmt.Errorf("rules: unknown key %q", key)
		}
	}
	return p, nil
}

// parsePayout accepts "1.5" or a ratio such as "6:5".
func parsePayout(s string) (float64, error) {
	num, den, ok := strings.Cut(s, ":")
	if !ok {
		return strconv.ParseFloat(s, 64)
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, err
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, errors.New("zero denominator")
	}
	return n / d, nil
}
