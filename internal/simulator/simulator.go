package simulator

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/engine"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/strategy"
)

// Player policies.
const (
	PolicyBasic     = "basic"      // basic strategy, flat bets
	PolicyCounter   = "counter"    // basic strategy, bets spread by true count
	PolicyNeverBust = "never-bust" // stands on any hard 12 or more
	PolicyMimic     = "mimic"      // plays the dealer's rule
)

// Policies lists the accepted policy names.
var Policies = []string{PolicyBasic, PolicyCounter, PolicyNeverBust, PolicyMimic}

// maxSpread caps the counter's bet at this many base bets.
const maxSpread = 8

// bankroll keeps simulated seats from running dry.
const bankroll = 1 << 40

// Config holds configuration for running simulations
type Config struct {
	Rounds  int
	Seed    int64
	Workers int
	Policy  string
	Bet     int
	Rules   engine.Rules
	Logger  zerolog.Logger
}

// Simulator plays blackjack rounds through the reducer
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = min(runtime.NumCPU(), 8)
	}
	if config.Policy == "" {
		config.Policy = PolicyBasic
	}
	if config.Bet == 0 {
		config.Bet = config.Rules.MinBet
	}
	return &Simulator{config: config}
}

// Run executes the simulation. Each worker plays its share of rounds at its
// own table, seeded from the configured seed, so a seed and worker count
// always produce the same statistics.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	workers := min(s.config.Workers, s.config.Rounds)
	perWorker := s.config.Rounds / workers
	remainder := s.config.Rounds % workers
	results := make([]*statistics.Statistics, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		rounds := perWorker
		if w < remainder {
			rounds++
		}
		seed := randutil.Derive(s.config.Seed, uint64(w)).Int64()

		g.Go(func() error {
			stats, err := s.runTable(ctx, seed, rounds)
			if err != nil {
				return fmt.Errorf("worker %d (seed %d): %w", w, seed, err)
			}
			results[w] = stats
			s.config.Logger.Debug().Int("worker", w).Int("rounds", rounds).Msg("Worker finished")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Merge(r)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

func (s *Simulator) validate() error {
	if s.config.Rounds <= 0 {
		return errors.New("rounds must be positive")
	}
	if err := s.config.Rules.Validate(); err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}
	switch s.config.Policy {
	case PolicyBasic, PolicyCounter, PolicyNeverBust, PolicyMimic:
	default:
		return fmt.Errorf("unknown policy %q", s.config.Policy)
	}
	if s.config.Bet < s.config.Rules.MinBet || s.config.Bet > s.config.Rules.MaxBet {
		return fmt.Errorf("bet %d outside table limits %d-%d", s.config.Bet, s.config.Rules.MinBet, s.config.Rules.MaxBet)
	}
	return nil
}

// runTable plays rounds at a single-seat table.
func (s *Simulator) runTable(ctx context.Context, seed int64, rounds int) (*statistics.Statistics, error) {
	stats := &statistics.Statistics{}
	state := engine.NewState(seed, s.config.Rules, 1)
	state.Book.RiskFree = false

	for range rounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, result, err := s.playRound(state)
		if err != nil {
			return nil, err
		}
		stats.Add(result)
		state = next
	}
	return stats, nil
}

// playRound bets, deals and plays one round to settlement.
func (s *Simulator) playRound(state engine.State) (engine.State, statistics.RoundResult, error) {
	var err error
	if state, err = engine.Reduce(state, engine.ResetGame{}); err != nil {
		return state, statistics.RoundResult{}, err
	}
	state.Book.Seats[0].SpendingPower = bankroll

	tc := state.TrueCount()
	bet := s.betFor(tc)
	steps := []engine.Action{
		engine.PlaceBet{Amount: bet, Type: ledger.Main},
		engine.DealGame{},
	}
	for _, a := range steps {
		if state, err = engine.Reduce(state, a); err != nil {
			return state, statistics.RoundResult{}, fmt.Errorf("%T: %w", a, err)
		}
	}

	for state.Phase != engine.PhaseResolving {
		var a engine.Action
		switch state.Phase {
		case engine.PhaseInsurance:
			a = engine.ResolveInsurance{Buy: false}
		case engine.PhasePlayerTurn:
			a = s.decide(state)
		default:
			return state, statistics.RoundResult{}, fmt.Errorf("stuck in phase %s", state.Phase)
		}
		if state, err = engine.Reduce(state, a); err != nil {
			return state, statistics.RoundResult{}, fmt.Errorf("%T: %w", a, err)
		}
	}

	return state, summarise(state, tc, s.config.Bet), nil
}

// betFor sizes the wager. The counter raises one base bet per true count
// point above one.
func (s *Simulator) betFor(tc int) int {
	if s.config.Policy != PolicyCounter || tc <= 1 {
		return s.config.Bet
	}
	units := min(tc, maxSpread)
	return min(s.config.Bet*units, s.config.Rules.MaxBet)
}

// decide picks the action for the active hand under the configured policy.
func (s *Simulator) decide(state engine.State) engine.Action {
	h, _ := state.Active()
	up, _ := state.Upcard()
	score := h.Score()

	switch s.config.Policy {
	case PolicyNeverBust:
		if (score >= 12 && !deck.IsSoft(h.Cards)) || score >= 18 {
			return engine.Stand{}
		}
		return engine.Hit{}
	case PolicyMimic:
		if score < 17 || (score == 17 && s.config.Rules.DealerHitsSoft17 && deck.IsSoft(h.Cards)) {
			return engine.Hit{}
		}
		return engine.Stand{}
	}

	move := strategy.Recommend(h.Cards, up)
	twoCards := len(h.Cards) == 2
	switch {
	case move == strategy.Double && !twoCards:
		// Doubling is only offered on two cards; soft 18 and up stand instead.
		if deck.IsSoft(h.Cards) && score >= 18 {
			move = strategy.Stand
		} else {
			move = strategy.Hit
		}
	case move == strategy.Surrender && (!twoCards || !s.config.Rules.SurrenderAllowed):
		move = strategy.Hit
	}

	switch move {
	case strategy.Stand:
		return engine.Stand{}
	case strategy.Double:
		return engine.DoubleDown{}
	case strategy.Split:
		return engine.Split{}
	case strategy.Surrender:
		return engine.Surrender{}
	default:
		return engine.Hit{}
	}
}

// summarise turns a settled round into a statistics record.
func summarise(state engine.State, tc, baseBet int) statistics.RoundResult {
	r := statistics.RoundResult{
		TrueCount:  tc,
		Hands:      len(state.Hands),
		DealerBust: deck.Score(state.Dealer) > 21,
	}
	for _, h := range state.Hands {
		r.Wagered += h.Bet
		r.Natural = r.Natural || h.Status == engine.StatusBlackjack
		r.Doubled = r.Doubled || h.Doubled
		r.Split = r.Split || h.Split
		r.Surrender = r.Surrender || h.Status == engine.StatusSurrender
	}
	r.Returned = r.Wagered + state.NetPayout
	r.Net = float64(state.NetPayout) / float64(baseBet)
	return r
}

// RunSimulation is a convenience wrapper for running simulations
func RunSimulation(ctx context.Context, rounds int, policy string, seed int64, logger zerolog.Logger) (*statistics.Statistics, error) {
	return New(Config{
		Rounds: rounds,
		Seed:   seed,
		Policy: policy,
		Rules:  engine.DefaultRules(),
		Logger: logger,
	}).Run(ctx)
}
