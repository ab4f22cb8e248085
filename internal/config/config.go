// Package config loads table settings from an HCL file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/drill"
	"github.com/lox/blackjack/internal/engine"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/store"
)

// Config is the complete table configuration
type Config struct {
	Table   *TableSettings   `hcl:"table,block"`
	Session *SessionSettings `hcl:"session,block"`
	Pacing  *PacingSettings  `hcl:"pacing,block"`
	Store   *StoreSettings   `hcl:"store,block"`
}

// TableSettings are the house rules
type TableSettings struct {
	Decks            int     `hcl:"decks,optional"`
	DealerHitsSoft17 *bool   `hcl:"dealer_hits_soft_17,optional"`
	SurrenderAllowed *bool   `hcl:"surrender_allowed,optional"`
	BlackjackPayout  float64 `hcl:"blackjack_payout,optional"`
	MinBet           int     `hcl:"min_bet,optional"`
	MaxBet           int     `hcl:"max_bet,optional"`
}

// SessionSettings describe who is playing and how
type SessionSettings struct {
	Seats     int    `hcl:"seats,optional"`
	Seed      int64  `hcl:"seed,optional"`
	Mode      string `hcl:"mode,optional"`
	Drill     string `hcl:"drill,optional"`
	BetWindow string `hcl:"bet_window,optional"`
}

// PacingSettings are the pauses after table events, as Go durations
type PacingSettings struct {
	Enabled    *bool  `hcl:"enabled,optional"`
	Shuffle    string `hcl:"shuffle,optional"`
	Card       string `hcl:"card,optional"`
	HoleReveal string `hcl:"hole_reveal,optional"`
	DealerDraw string `hcl:"dealer_draw,optional"`
	SideBet    string `hcl:"side_bet,optional"`
	Settle     string `hcl:"settle,optional"`
}

// StoreSettings select the persistence backend
type StoreSettings struct {
	Backend       string `hcl:"backend,optional"`
	Path          string `hcl:"path,optional"`
	RedisAddr     string `hcl:"redis_addr,optional"`
	RedisPassword string `hcl:"redis_password,optional"`
	RedisDB       int    `hcl:"redis_db,optional"`
	RedisPrefix   string `hcl:"redis_prefix,optional"`
}

// Overrides are read from the environment and win over the file.
type Overrides struct {
	Decks         int    `env:"BLACKJACK_DECKS"`
	MinBet        int    `env:"BLACKJACK_MIN_BET"`
	MaxBet        int    `env:"BLACKJACK_MAX_BET"`
	Seats         int    `env:"BLACKJACK_SEATS"`
	Seed          int64  `env:"BLACKJACK_SEED"`
	Mode          string `env:"BLACKJACK_MODE"`
	NoPacing      bool   `env:"BLACKJACK_NO_PACING"`
	StoreBackend  string `env:"BLACKJACK_STORE"`
	StorePath     string `env:"BLACKJACK_STORE_PATH"`
	RedisAddr     string `env:"BLACKJACK_REDIS_ADDR"`
	RedisPassword string `env:"BLACKJACK_REDIS_PASSWORD"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads an HCL file, applies defaults for missing values and then the
// BLACKJACK_* environment. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	config := &Config{}
	if _, err := os.Stat(filename); err == nil {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
		}
		if diags := gohcl.DecodeBody(file.Body, nil, config); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	config.applyDefaults()

	var o Overrides
	if err := env.Parse(&o); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	config.apply(o)
	return config, nil
}

func (c *Config) applyDefaults() {
	rules := engine.DefaultRules()
	if c.Table == nil {
		c.Table = &TableSettings{}
	}
	if c.Table.Decks == 0 {
		c.Table.Decks = rules.Decks
	}
	if c.Table.DealerHitsSoft17 == nil {
		c.Table.DealerHitsSoft17 = &rules.DealerHitsSoft17
	}
	if c.Table.SurrenderAllowed == nil {
		c.Table.SurrenderAllowed = &rules.SurrenderAllowed
	}
	if c.Table.BlackjackPayout == 0 {
		c.Table.BlackjackPayout = rules.BlackjackPayout
	}
	if c.Table.MinBet == 0 {
		c.Table.MinBet = rules.MinBet
	}
	if c.Table.MaxBet == 0 {
		c.Table.MaxBet = rules.MaxBet
	}

	if c.Session == nil {
		c.Session = &SessionSettings{}
	}
	if c.Session.Seats == 0 {
		c.Session.Seats = 1
	}
	if c.Session.Mode == "" {
		c.Session.Mode = string(engine.ModeStandard)
	}
	if c.Session.Drill == "" {
		c.Session.Drill = string(drill.KindAll)
	}
	if c.Session.BetWindow == "" {
		c.Session.BetWindow = engine.DefaultBetWindow.String()
	}

	pacing := engine.DefaultPacing()
	if c.Pacing == nil {
		c.Pacing = &PacingSettings{}
	}
	if c.Pacing.Enabled == nil {
		enabled := true
		c.Pacing.Enabled = &enabled
	}
	for _, d := range []struct {
		field *string
		def   time.Duration
	}{
		{&c.Pacing.Shuffle, pacing.Shuffle},
		{&c.Pacing.Card, pacing.Card},
		{&c.Pacing.HoleReveal, pacing.HoleReveal},
		{&c.Pacing.DealerDraw, pacing.DealerDraw},
		{&c.Pacing.SideBet, pacing.SideBet},
		{&c.Pacing.Settle, pacing.Settle},
	} {
		if *d.field == "" {
			*d.field = d.def.String()
		}
	}

	if c.Store == nil {
		c.Store = &StoreSettings{}
	}
	if c.Store.Backend == "" {
		c.Store.Backend = store.BackendMemory
	}
	if c.Store.RedisPrefix == "" {
		c.Store.RedisPrefix = "blackjack:"
	}
}

func (c *Config) apply(o Overrides) {
	if o.Decks != 0 {
		c.Table.Decks = o.Decks
	}
	if o.MinBet != 0 {
		c.Table.MinBet = o.MinBet
	}
	if o.MaxBet != 0 {
		c.Table.MaxBet = o.MaxBet
	}
	if o.Seats != 0 {
		c.Session.Seats = o.Seats
	}
	if o.Seed != 0 {
		c.Session.Seed = o.Seed
	}
	if o.Mode != "" {
		c.Session.Mode = o.Mode
	}
	if o.NoPacing {
		disabled := false
		c.Pacing.Enabled = &disabled
	}
	if o.StoreBackend != "" {
		c.Store.Backend = o.StoreBackend
	}
	if o.StorePath != "" {
		c.Store.Path = o.StorePath
	}
	if o.RedisAddr != "" {
		c.Store.RedisAddr = o.RedisAddr
	}
	if o.RedisPassword != "" {
		c.Store.RedisPassword = o.RedisPassword
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Rules().Validate(); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	if c.Session.Seats < 1 || c.Session.Seats > ledger.NumSpots {
		return fmt.Errorf("session: seats must be between 1 and %d", ledger.NumSpots)
	}
	switch engine.Mode(c.Session.Mode) {
	case engine.ModeStandard, engine.ModeDrill:
	default:
		return fmt.Errorf("session: invalid mode %q", c.Session.Mode)
	}
	if _, err := drill.ParseKind(c.Session.Drill); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if _, err := c.BetWindow(); err != nil {
		return err
	}
	if _, err := c.EnginePacing(); err != nil {
		return err
	}

	switch c.Store.Backend {
	case store.BackendMemory:
	case store.BackendFile, store.BackendSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store: %s backend needs a path", c.Store.Backend)
		}
	case store.BackendRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("store: redis backend needs redis_addr")
		}
	default:
		return fmt.Errorf("store: unknown backend %q", c.Store.Backend)
	}
	return nil
}

// Rules returns the table rules.
func (c *Config) Rules() engine.Rules {
	return engine.Rules{
		Decks:            c.Table.Decks,
		DealerHitsSoft17: *c.Table.DealerHitsSoft17,
		SurrenderAllowed: *c.Table.SurrenderAllowed,
		BlackjackPayout:  c.Table.BlackjackPayout,
		MinBet:           c.Table.MinBet,
		MaxBet:           c.Table.MaxBet,
	}
}

// BetWindow returns the betting countdown length.
func (c *Config) BetWindow() (time.Duration, error) {
	d, err := time.ParseDuration(c.Session.BetWindow)
	if err != nil {
		return 0, fmt.Errorf("session: bet_window: %w", err)
	}
	return d, nil
}

// EnginePacing returns the pauses to use, all zero when pacing is disabled.
func (c *Config) EnginePacing() (engine.Pacing, error) {
	var p engine.Pacing
	if !*c.Pacing.Enabled {
		return p, nil
	}
	for _, f := range []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"shuffle", c.Pacing.Shuffle, &p.Shuffle},
		{"card", c.Pacing.Card, &p.Card},
		{"hole_reveal", c.Pacing.HoleReveal, &p.HoleReveal},
		{"dealer_draw", c.Pacing.DealerDraw, &p.DealerDraw},
		{"side_bet", c.Pacing.SideBet, &p.SideBet},
		{"settle", c.Pacing.Settle, &p.Settle},
	} {
		d, err := time.ParseDuration(f.value)
		if err != nil {
			return engine.Pacing{}, fmt.Errorf("pacing: %s: %w", f.name, err)
		}
		if d < 0 {
			return engine.Pacing{}, fmt.Errorf("pacing: %s must not be negative", f.name)
		}
		*f.dst = d
	}
	return p, nil
}

// StoreOptions returns the options for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend: c.Store.Backend,
		Path:    c.Store.Path,
		Redis: store.RedisOptions{
			Addr:     c.Store.RedisAddr,
			Password: c.Store.RedisPassword,
			DB:       c.Store.RedisDB,
			Prefix:   c.Store.RedisPrefix,
		},
	}
}
