package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/drill"
	"github.com/lox/blackjack/internal/engine"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/store"
)

// PlayCmd runs an interactive table on stdin.
type PlayCmd struct {
	Seats   int    `help:"Number of players (1-3, default from config)"`
	Seed    int64  `help:"Shoe seed for a reproducible session (0 = config or random)"`
	History string `help:"Append settled rounds to this TOML file" type:"path"`
	NoPace  bool   `name:"no-pace" help:"Disable pauses between cards"`
}

func (cmd *PlayCmd) Run(g *Globals) error {
	return runTable(g, tableOptions{
		seats:   cmd.Seats,
		seed:    cmd.Seed,
		history: cmd.History,
		noPace:  cmd.NoPace,
	})
}

// DrillCmd runs the interactive table in drill mode.
type DrillCmd struct {
	Kind   string `arg:"" optional:"" enum:"hard,soft,pairs,all" default:"all" help:"Hands to practise (hard, soft, pairs, all)"`
	Seed   int64  `help:"Seed for reproducible drills (0 = config or random)"`
	NoPace bool   `name:"no-pace" help:"Disable pauses between cards"`
}

func (cmd *DrillCmd) Run(g *Globals) error {
	return runTable(g, tableOptions{
		seed:   cmd.Seed,
		noPace: cmd.NoPace,
		mode:   engine.ModeDrill,
		drill:  drill.Kind(cmd.Kind),
	})
}

type tableOptions struct {
	seats   int
	seed    int64
	history string
	noPace  bool
	mode    engine.Mode
	drill   drill.Kind
}

func runTable(g *Globals, opts tableOptions) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := g.logger()
	ctx, stop := shared.SetupSignalHandler(logger)
	defer stop()

	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	var hist *history.Writer
	if opts.history != "" {
		if hist, err = history.OpenWriter(opts.history); err != nil {
			return err
		}
		defer hist.Close()
	}

	sess := newSession(os.Stdout, hist, logger)
	eng, err := newEngine(ctx, cfg, opts, st, logger, sess.onEvent)
	if err != nil {
		return err
	}
	sess.eng = eng

	return sess.run(ctx, os.Stdin)
}

// newEngine builds a table from config with command-line overrides applied.
func newEngine(ctx context.Context, cfg *config.Config, opts tableOptions, st store.Store, logger zerolog.Logger, observe func(engine.Event)) (*engine.Engine, error) {
	pacing, err := cfg.EnginePacing()
	if err != nil {
		return nil, err
	}
	if opts.noPace {
		pacing = engine.Pacing{}
	}
	betWindow, err := cfg.BetWindow()
	if err != nil {
		return nil, err
	}

	seats := cfg.Session.Seats
	if opts.seats != 0 {
		seats = opts.seats
	}
	engineOpts := []engine.Option{
		engine.WithRules(cfg.Rules()),
		engine.WithSeats(seats),
		engine.WithLogger(logger),
		engine.WithStore(st),
		engine.WithPacing(pacing),
		engine.WithBetWindow(betWindow),
		engine.WithEventObserver(observe),
		engine.WithRoundEnd(func(hands []engine.Hand, net int) {
			logger.Debug().Int("hands", len(hands)).Int("net", net).Msg("Round end callback")
		}),
	}
	if seed := firstNonZero(opts.seed, cfg.Session.Seed); seed != 0 {
		engineOpts = append(engineOpts, engine.WithSeed(seed))
	}

	eng, err := engine.New(ctx, engineOpts...)
	if err != nil {
		return nil, err
	}

	mode := engine.Mode(cfg.Session.Mode)
	if opts.mode != "" {
		mode = opts.mode
	}
	kind := drill.Kind(cfg.Session.Drill)
	if opts.drill != "" {
		kind = opts.drill
	}
	if kind != "" {
		if err := eng.SetDrillType(ctx, kind); err != nil {
			return nil, err
		}
	}
	if mode != engine.ModeStandard {
		if err := eng.SetGameMode(ctx, mode); err != nil {
			return nil, err
		}
	}
	return eng, nil
}

// firstNonZero returns the first non-zero seed.
func firstNonZero(seeds ...int64) int64 {
	for _, s := range seeds {
		if s != 0 {
			return s
		}
	}
	return 0
}

// run reads commands until quit, EOF or cancellation.
func (s *session) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(s.out, "Type 'help' for commands.")
	s.show()
	for {
		s.prompt()
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := s.exec(ctx, line)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}
