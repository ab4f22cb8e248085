package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/blackjack/internal/drill"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/roundid"
	"github.com/lox/blackjack/internal/store"
	"github.com/lox/blackjack/internal/strategy"
)

// RoundEndFunc is called once for every settled standard round with the
// final hands and the net amount the table won (negative when it lost).
type RoundEndFunc func(hands []Hand, netPayout int)

// DefaultBetWindow is the advisory betting countdown.
const DefaultBetWindow = 30 * time.Second

// Option configures an Engine.
type Option func(*config)

type config struct {
	seed       int64
	seeded     bool
	rules      Rules
	seats      int
	logger     zerolog.Logger
	clock      quartz.Clock
	store      store.Store
	pacing     Pacing
	onRoundEnd RoundEndFunc
	onEvent    func(Event)
	betWindow  time.Duration
}

// WithSeed fixes the seed so shoes and drills replay exactly.
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed, c.seeded = seed, true }
}

func WithRules(r Rules) Option {
	return func(c *config) { c.rules = r }
}

// WithSeats sets how many players sit at the table (1-3).
func WithSeats(n int) Option {
	return func(c *config) { c.seats = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

func WithClock(clock quartz.Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithStore persists seats, jackpot, daily bonus and drill stats.
func WithStore(s store.Store) Option {
	return func(c *config) { c.store = s }
}

// WithPacing pauses after events. The default is no pacing.
func WithPacing(p Pacing) Option {
	return func(c *config) { c.pacing = p }
}

func WithRoundEnd(fn RoundEndFunc) Option {
	return func(c *config) { c.onRoundEnd = fn }
}

// WithEventObserver is called for every event just before its pause.
func WithEventObserver(fn func(Event)) Option {
	return func(c *config) { c.onEvent = fn }
}

func WithBetWindow(d time.Duration) Option {
	return func(c *config) { c.betWindow = d }
}

// Engine is a table with a single writer. All methods are safe for
// concurrent use; actions are applied one at a time.
//
// Queries only take mu, so observers and the round-end callback may read the
// table while an action is being paced. They must not dispatch actions.
type Engine struct {
	dispatch    sync.Mutex // held for a whole Dispatch, pacing included
	mu          sync.Mutex // guards state and betDeadline
	state       State
	logger      zerolog.Logger
	clock       quartz.Clock
	store       store.Store
	pacer       *Pacer
	ids         *roundid.Generator
	onRoundEnd  RoundEndFunc
	onEvent     func(Event)
	betWindow   time.Duration
	betDeadline time.Time
}

// New builds an engine and restores persisted state from the store.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	cfg := config{
		rules:     DefaultRules(),
		seats:     1,
		logger:    zerolog.Nop(),
		betWindow: DefaultBetWindow,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	if cfg.store == nil {
		cfg.store = store.NewMemory()
	}
	if !cfg.seeded {
		cfg.seed = randutil.Seed()
	}
	if err := cfg.rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	if cfg.seats < 1 || cfg.seats > ledger.NumSpots {
		return nil, fmt.Errorf("seats must be between 1 and %d, got %d", ledger.NumSpots, cfg.seats)
	}

	state := NewState(cfg.seed, cfg.rules, cfg.seats)
	if err := restore(ctx, cfg.store, &state); err != nil {
		return nil, fmt.Errorf("restore table: %w", err)
	}

	e := &Engine{
		state:      state,
		logger:     cfg.logger.With().Str("component", "engine").Logger(),
		clock:      cfg.clock,
		store:      cfg.store,
		pacer:      NewPacer(cfg.clock, cfg.pacing),
		ids:        roundid.NewGenerator(cfg.clock, nil),
		onRoundEnd: cfg.onRoundEnd,
		onEvent:    cfg.onEvent,
		betWindow:  cfg.betWindow,
	}
	e.betDeadline = e.clock.Now().Add(e.betWindow)

	e.logger.Info().
		Int64("seed", cfg.seed).
		Int("seats", len(state.Book.Seats)).
		Int("decks", cfg.rules.Decks).
		Msg("Table ready")
	return e, nil
}

// Dispatch applies one action. The returned State is a copy the caller may
// keep. Pacing pauses run before Dispatch returns; if ctx is cancelled
// during a pause the action has still been applied and ctx.Err() is
// returned.
func (e *Engine) Dispatch(ctx context.Context, a Action) (State, error) {
	e.dispatch.Lock()
	defer e.dispatch.Unlock()

	prev, next, err := e.apply(a)
	if err != nil {
		return next.Clone(), err
	}

	logger := e.actionLogger(a, next)
	if err := save(ctx, e.store, prev, next); err != nil {
		logger.Error().Err(err).Msg("Failed to persist table")
	}

	paceErr := e.pacer.Play(ctx, next.Events, e.onEvent)

	if next.Round > prev.Round {
		logger.Info().
			Int("net", next.NetPayout).
			Int("dealer", next.DealerScore()).
			Int("hands", len(next.Hands)).
			Str("reason", string(next.Reason)).
			Msg("Round settled")
		if e.onRoundEnd != nil {
			e.onRoundEnd(next.Clone().Hands, next.NetPayout)
		}
	}
	return next.Clone(), paceErr
}

// apply runs the reducer under the state lock and returns the states either
// side of the action.
func (e *Engine) apply(a Action) (State, State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch act := a.(type) {
	case DealGame:
		if act.RoundID == "" {
			act.RoundID = e.ids.Next()
			a = act
		}
	case ClaimDailyBonus:
		if act.Now.IsZero() {
			act.Now = e.clock.Now()
			a = act
		}
	}
	if a == nil {
		return e.state, e.state, ErrInvalidAction
	}

	prev := e.state
	next, err := Reduce(prev, a)
	e.state = next

	logger := e.actionLogger(a, next)
	if err != nil {
		logger.Warn().Err(err).Msg("Action rejected")
		return prev, next, err
	}
	logger.Debug().Str("from", string(prev.Phase)).Int("events", len(next.Events)).Msg("Action applied")

	if next.Phase == PhaseBetting && (prev.Phase != PhaseBetting || resetsBetTimer(a)) {
		e.betDeadline = e.clock.Now().Add(e.betWindow)
	}
	return prev, next, nil
}

func (e *Engine) actionLogger(a Action, next State) zerolog.Logger {
	logger := e.logger.With().
		Str("action", a.actionName()).
		Str("phase", string(next.Phase)).
		Logger()
	if next.RoundID != "" {
		logger = logger.With().Str("round_id", next.RoundID).Logger()
	}
	return logger
}

func resetsBetTimer(a Action) bool {
	switch a.(type) {
	case PlaceBet, ClearBets, ReBet, SetPlayerCount, UpdateRules:
		return true
	default:
		return false
	}
}

// State returns a copy of the current table.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Advice returns the basic-strategy move for the active hand.
func (e *Engine) Advice() (strategy.Move, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Advice()
}

// BetTimer returns the whole seconds left on the betting countdown. The
// countdown is advisory: nothing happens when it reaches zero.
func (e *Engine) BetTimer() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != PhaseBetting || e.state.Mode != ModeStandard {
		return 0
	}
	left := e.betDeadline.Sub(e.clock.Now())
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}

func (e *Engine) do(ctx context.Context, a Action) error {
	_, err := e.Dispatch(ctx, a)
	return err
}

// PlaceBet puts amount on a spot, or on a side bet when t is not ledger.Main.
func (e *Engine) PlaceBet(ctx context.Context, amount int, t ledger.BetType, spot int) error {
	return e.do(ctx, PlaceBet{Amount: amount, Type: t, Spot: spot})
}

// ClearBets returns every wager on the felt to its seat.
func (e *Engine) ClearBets(ctx context.Context) error { return e.do(ctx, ClearBets{}) }

// ReBet replays the wagers of the last dealt round.
func (e *Engine) ReBet(ctx context.Context) error { return e.do(ctx, ReBet{}) }

// DealGame starts a round, replaying the last wager when called after a
// settled round.
func (e *Engine) DealGame(ctx context.Context) error { return e.do(ctx, DealGame{}) }

// Hit draws a card to the active hand.
func (e *Engine) Hit(ctx context.Context) error { return e.do(ctx, Hit{}) }

// Stand ends play on the active hand.
func (e *Engine) Stand(ctx context.Context) error { return e.do(ctx, Stand{}) }

// DoubleDown doubles the active hand's bet and draws exactly one card.
func (e *Engine) DoubleDown(ctx context.Context) error {
	return e.do(ctx, DoubleDown{})
}

// Split splits the active pair into two hands.
func (e *Engine) Split(ctx context.Context) error { return e.do(ctx, Split{}) }

// Surrender gives up the active hand for half its bet back.
func (e *Engine) Surrender(ctx context.Context) error { return e.do(ctx, Surrender{}) }

// ResetGame abandons the round, returning unsettled stakes, and goes back to
// betting.
func (e *Engine) ResetGame(ctx context.Context) error { return e.do(ctx, ResetGame{}) }

// ResolveInsurance answers the insurance offer.
func (e *Engine) ResolveInsurance(ctx context.Context, buy bool) error {
	return e.do(ctx, ResolveInsurance{Buy: buy})
}

// UpdateRules applies a partial rule change between rounds.
func (e *Engine) UpdateRules(ctx context.Context, p RulesPatch) error {
	return e.do(ctx, UpdateRules{Patch: p})
}

// SetPlayerCount seats n players.
func (e *Engine) SetPlayerCount(ctx context.Context, n int) error {
	return e.do(ctx, SetPlayerCount{N: n})
}

// SetGameMode switches between standard play and drills.
func (e *Engine) SetGameMode(ctx context.Context, m Mode) error {
	return e.do(ctx, SetGameMode{Mode: m})
}

// SetDrillType selects the hands generated in drill mode.
func (e *Engine) SetDrillType(ctx context.Context, k drill.Kind) error {
	return e.do(ctx, SetDrillType{Kind: k})
}

// ClaimDailyBonus credits the daily bonus at the engine clock's time.
func (e *Engine) ClaimDailyBonus(ctx context.Context) error {
	return e.do(ctx, ClaimDailyBonus{})
}
