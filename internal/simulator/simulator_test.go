package simulator

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/engine"
)

func testConfig(rounds int) Config {
	return Config{
		Rounds:  rounds,
		Seed:    12345,
		Workers: 4,
		Rules:   engine.DefaultRules(),
		Logger:  zerolog.Nop(),
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Parallel()

	sim := New(Config{Rounds: 10, Rules: engine.DefaultRules()})
	assert.Equal(t, PolicyBasic, sim.config.Policy)
	assert.Equal(t, 10, sim.config.Bet)
	assert.Positive(t, sim.config.Workers)
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	first, err := New(testConfig(300)).Run(context.Background())
	require.NoError(t, err)
	second, err := New(testConfig(300)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 300, first.Rounds)
	assert.Equal(t, first, second)

	cfg := testConfig(300)
	cfg.Seed++
	third, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.Values, third.Values)
}

func TestRunSplitsRoundsAcrossWorkers(t *testing.T) {
	t.Parallel()

	cfg := testConfig(7)
	cfg.Workers = 3
	stats, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Rounds)

	cfg.Workers = 50
	stats, err = New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Rounds)
}

func TestBasicStrategyEdgeIsSmall(t *testing.T) {
	t.Parallel()

	stats, err := New(testConfig(4000)).Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, stats.Validate())

	assert.InDelta(t, 0, stats.Mean(), 0.1)
	assert.Positive(t, stats.Naturals)
	assert.Positive(t, stats.Doubles)
	assert.Positive(t, stats.Splits)
	assert.Positive(t, stats.DealerBusts)
	assert.GreaterOrEqual(t, stats.Hands, stats.Rounds)
}

func TestPolicies(t *testing.T) {
	t.Parallel()

	for _, policy := range Policies {
		t.Run(policy, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig(200)
			cfg.Policy = policy
			stats, err := New(cfg).Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, stats.Rounds)

			if policy == PolicyNeverBust || policy == PolicyMimic {
				assert.Zero(t, stats.Doubles)
				assert.Zero(t, stats.Splits)
				assert.Zero(t, stats.Surrenders)
			}
		})
	}
}

func TestCounterSpreadsBets(t *testing.T) {
	t.Parallel()

	sim := New(Config{Policy: PolicyCounter, Bet: 10, Rules: engine.DefaultRules()})
	assert.Equal(t, 10, sim.betFor(-3))
	assert.Equal(t, 10, sim.betFor(1))
	assert.Equal(t, 30, sim.betFor(3))
	assert.Equal(t, 80, sim.betFor(20))

	sim = New(Config{Policy: PolicyCounter, Bet: 100, Rules: engine.DefaultRules()})
	assert.Equal(t, 500, sim.betFor(8), "capped at the table max")

	flat := New(Config{Policy: PolicyBasic, Bet: 10, Rules: engine.DefaultRules()})
	assert.Equal(t, 10, flat.betFor(5))
}

func TestDecideFallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cards  string
		up     string
		policy string
		want   engine.Action
	}{
		{"hard 11 doubles", "6s5h", "Tc", PolicyBasic, engine.DoubleDown{}},
		{"three card 11 hits", "2s4h5c", "Tc", PolicyBasic, engine.Hit{}},
		{"three card soft 18 stands", "As2h5c", "6d", PolicyBasic, engine.Stand{}},
		{"eights split", "8s8h", "Tc", PolicyBasic, engine.Split{}},
		{"never bust stands on 12", "Ts2h", "Tc", PolicyNeverBust, engine.Stand{}},
		{"never bust hits soft 17", "As6h", "Tc", PolicyNeverBust, engine.Hit{}},
		{"mimic hits 16", "Ts6h", "5c", PolicyMimic, engine.Hit{}},
		{"mimic hits soft 17", "As6h", "5c", PolicyMimic, engine.Hit{}},
		{"mimic stands 17", "Ts7h", "5c", PolicyMimic, engine.Stand{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sim := New(Config{Policy: tt.policy, Rules: engine.DefaultRules()})
			state := engine.State{
				Phase:  engine.PhasePlayerTurn,
				Hands:  []engine.Hand{{ID: 1, Cards: deck.MustParseCards(tt.cards), Status: engine.StatusPlaying}},
				Dealer: deck.MustParseCards(tt.up + "2d"),
			}
			assert.Equal(t, tt.want, sim.decide(state))
		})
	}
}

func TestRunValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no rounds", func(c *Config) { c.Rounds = 0 }},
		{"bad policy", func(c *Config) { c.Policy = "martingale" }},
		{"bet below min", func(c *Config) { c.Bet = 5 }},
		{"bet above max", func(c *Config) { c.Bet = 1000 }},
		{"bad rules", func(c *Config) { c.Rules.Decks = 3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig(10)
			tt.mutate(&cfg)
			_, err := New(cfg).Run(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig(100)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSimulation_Convenience(t *testing.T) {
	t.Parallel()

	stats, err := RunSimulation(context.Background(), 50, PolicyBasic, 7, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 50, stats.Rounds)
}
