package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config  string `short:"c" default:"blackjack.hcl" help:"Path to the HCL config file (missing file uses defaults)"`
	Debug   bool   `help:"Enable debug logging"`
	LogJSON bool   `name:"log-json" help:"Log as JSON instead of console output"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play at the table"`
	Drill    DrillCmd         `cmd:"" help:"Practise basic-strategy decisions"`
	Advise   AdviseCmd        `cmd:"" help:"Show the basic-strategy move for a hand"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate rounds and report the player's return"`
	Heatmap  HeatmapCmd       `cmd:"" help:"Show drill accuracy by hand and upcard"`
	History  HistoryCmd       `cmd:"" help:"Summarise a session history file"`
}

func (g *Globals) logger() zerolog.Logger {
	return shared.SetupLogger(g.Debug, g.LogJSON)
}

// load reads and validates the config file.
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", g.Config, err)
	}
	return cfg, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Blackjack table with strategy drills and simulation"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
