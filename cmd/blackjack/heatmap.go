package main

import (
	"fmt"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/drill"
	"github.com/lox/blackjack/internal/engine"
	"github.com/lox/blackjack/internal/store"
)

// HeatmapCmd shows saved drill accuracy.
type HeatmapCmd struct {
	Weakest    int `help:"List this many weakest scenarios instead of the grid"`
	MinSamples int `name:"min-samples" default:"3" help:"Ignore scenarios with fewer decisions when listing the weakest"`
}

func (cmd *HeatmapCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	ctx, stop := shared.SetupSignalHandler(g.logger())
	defer stop()

	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	stats := drill.Stats{}
	if _, err := store.GetJSON(ctx, st, engine.KeyStrategyStats, &stats); err != nil {
		return fmt.Errorf("load drill stats: %w", err)
	}

	if cmd.Weakest > 0 {
		fmt.Print(display.Weakest(stats, cmd.Weakest, cmd.MinSamples))
		return nil
	}
	fmt.Print(display.Heatmap(stats))
	return nil
}
