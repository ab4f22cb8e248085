package display

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/drill"
	"github.com/lox/blackjack/internal/engine"
	"github.com/lox/blackjack/internal/ledger"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func reduce(t *testing.T, s engine.State, actions ...engine.Action) engine.State {
	t.Helper()
	for _, a := range actions {
		next, err := engine.Reduce(s, a)
		require.NoError(t, err)
		s = next
	}
	return s
}

func TestTableHidesHoleCard(t *testing.T) {
	t.Parallel()

	s := engine.NewState(1, engine.DefaultRules(), 1)
	s.Shoe = deck.NewStackedShoe(deck.MustParseCards("Ts6hTc7d"))
	s = reduce(t, s, engine.PlaceBet{Amount: 100, Type: ledger.Main}, engine.DealGame{})

	out := plain(Table(s))
	assert.Contains(t, out, "Dealer: Tc ?? (10)")
	assert.Contains(t, out, "> Hand 1 (spot 1): Ts 6h (16) bet 100")
	assert.Contains(t, out, "Player 1: 900")
	assert.NotContains(t, out, "7d")
}

func TestTableAfterSettlement(t *testing.T) {
	t.Parallel()

	s := engine.NewState(1, engine.DefaultRules(), 1)
	s.Shoe = deck.NewStackedShoe(deck.MustParseCards("Ts9hTc7d"))
	s = reduce(t, s, engine.PlaceBet{Amount: 100, Type: ledger.Main}, engine.DealGame{}, engine.Stand{})

	out := plain(Table(s))
	assert.Contains(t, out, "Dealer: Tc 7d (17)")
	assert.Contains(t, out, "[stand] Win")
	assert.Contains(t, out, "Net +100")
	assert.Contains(t, out, "resolving")
}

func TestTableDrillMode(t *testing.T) {
	t.Parallel()

	s := engine.NewState(1, engine.DefaultRules(), 1)
	s = reduce(t, s, engine.SetGameMode{Mode: engine.ModeDrill}, engine.DealGame{})

	out := plain(Table(s))
	assert.Contains(t, out, "all drill")
	assert.NotContains(t, out, "Player 1:")
	assert.NotContains(t, out, "bet ")
}

func TestHeatmap(t *testing.T) {
	t.Parallel()

	stats := drill.Stats{}
	key := drill.Key{Category: drill.Hard, Player: 16, Dealer: 10}
	for range 9 {
		stats.Record(key, true)
	}
	stats.Record(key, false)
	stats.Record(drill.Key{Category: drill.Pair, Player: 8, Dealer: 11}, false)

	out := plain(Heatmap(stats))
	lines := strings.Split(out, "\n")
	assert.Equal(t, "          2    3    4    5    6    7    8    9    T    A", lines[0])

	var row16, row88 string
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "16 "):
			row16 = l
		case strings.HasPrefix(l, "8,8 "):
			row88 = l
		}
	}
	assert.True(t, strings.HasSuffix(row16, " 90%    ·"), row16)
	assert.True(t, strings.HasSuffix(row88, "   0%"), row88)
	assert.Contains(t, out, "Overall: 9/11 (82%)")
}

func TestCellRatings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "   ·", plain(Cell(drill.Record{})))
	assert.Equal(t, " 75%", plain(Cell(drill.Record{Correct: 3, Total: 4})))
	assert.Equal(t, "100%", plain(Cell(drill.Record{Correct: 2, Total: 2})))
}

func TestWeakest(t *testing.T) {
	t.Parallel()

	assert.Contains(t, plain(Weakest(drill.Stats{}, 3, 1)), "Not enough")

	stats := drill.Stats{}
	stats.Record(drill.Key{Category: drill.Soft, Player: 18, Dealer: 9}, false)
	stats.Record(drill.Key{Category: drill.Hard, Player: 12, Dealer: 3}, true)
	out := plain(Weakest(stats, 1, 1))
	assert.Contains(t, out, "S-18-9")
	assert.NotContains(t, out, "H-12-3")
}
