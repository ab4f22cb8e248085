package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/simulator"
	"github.com/lox/blackjack/internal/statistics"
)

// SimulateCmd plays many rounds with a fixed policy and reports the result.
type SimulateCmd struct {
	Rounds  int    `default:"100000" help:"Number of rounds to simulate"`
	Policy  string `default:"basic" enum:"basic,counter,never-bust,mimic" help:"Player policy (basic, counter, never-bust, mimic)"`
	Seed    int64  `help:"RNG seed (0 for random)"`
	Workers int    `help:"Parallel tables (0 = one per CPU, up to 8)"`
	Bet     int    `help:"Base bet (0 = table minimum)"`
	JSON    bool   `name:"json" help:"Print statistics as JSON"`
}

func (cmd *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := g.logger()
	ctx, stop := shared.SetupSignalHandler(logger)
	defer stop()

	seed := cmd.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim := simulator.New(simulator.Config{
		Rounds:  cmd.Rounds,
		Seed:    seed,
		Workers: cmd.Workers,
		Policy:  cmd.Policy,
		Bet:     cmd.Bet,
		Rules:   cfg.Rules(),
		Logger:  logger,
	})

	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info().
		Int("rounds", stats.Rounds).
		Dur("elapsed", time.Since(start)).
		Msg("Simulation complete")

	if cmd.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	printReport(os.Stdout, cmd.Policy, seed, stats)
	return nil
}

func printReport(w io.Writer, policy string, seed int64, s *statistics.Statistics) {
	lo, hi := s.ConfidenceInterval95()
	fmt.Fprintf(w, "Policy: %s  Seed: %d  Rounds: %d  Hands: %d\n", policy, seed, s.Rounds, s.Hands)
	fmt.Fprintf(w, "Mean: %+.4f bets/round  (95%% CI %+.4f to %+.4f)\n", s.Mean(), lo, hi)
	fmt.Fprintf(w, "Std dev: %.4f  Median: %+.2f  P5: %+.2f  P95: %+.2f\n",
		s.StdDev(), s.Median(), s.Percentile(0.05), s.Percentile(0.95))
	fmt.Fprintf(w, "Player edge: %+.3f%%  (wagered %d, returned %d)\n", s.Edge()*100, s.Wagered, s.Returned)
	fmt.Fprintf(w, "Won %d  Lost %d  Pushed %d\n", s.Wins, s.Losses, s.Pushes)
	fmt.Fprintf(w, "Naturals %d  Doubles %d  Splits %d  Surrenders %d  Dealer busts %d\n",
		s.Naturals, s.Doubles, s.Splits, s.Surrenders, s.DealerBusts)

	fmt.Fprintln(w, "\nBy true count:")
	for tc := statistics.MinCount; tc <= statistics.MaxCount; tc++ {
		c := s.CountResults[tc-statistics.MinCount]
		if c.Rounds == 0 {
			continue
		}
		label := fmt.Sprintf("%+d", tc)
		switch tc {
		case statistics.MinCount:
			label = fmt.Sprintf("<=%+d", tc)
		case statistics.MaxCount:
			label = fmt.Sprintf(">=%+d", tc)
		}
		fmt.Fprintf(w, "  %5s  %8d rounds  %+.4f\n", label, c.Rounds, s.CountMean(tc))
	}
}
