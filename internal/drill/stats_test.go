package drill

import (
	"encoding/json"
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cards, up string
		want      string
	}{
		{"Ts2h", "4c", "H-12-4"},
		{"As7d", "9c", "S-18-9"},
		{"8s8d", "Tc", "P-8-10"},
		{"KsTd", "Ac", "P-10-11"},
		{"AsAd", "6c", "P-11-6"},
		{"5s4d3c", "2c", "H-12-2"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			got := KeyFor(deck.MustParseCards(tt.cards), deck.MustParseCards(tt.up)[0])
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	k, err := ParseKey("S-18-11")
	require.NoError(t, err)
	assert.Equal(t, Key{Category: Soft, Player: 18, Dealer: 11}, k)

	for _, bad := range []string{"", "X-1-2", "H-12", "H-x-4", "HH-12-4"} {
		_, err := ParseKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestStatsJSONKeys(t *testing.T) {
	t.Parallel()

	s := Stats{}
	s.Record(Key{Category: Hard, Player: 12, Dealer: 4}, true)
	s.Record(Key{Category: Hard, Player: 12, Dealer: 4}, false)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"H-12-4":{"correct":1,"total":2}}`, string(raw))

	var back Stats
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, s, back)
}

func TestRecordRating(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Unseen, Record{}.Rate())
	assert.Equal(t, Good, Record{Correct: 9, Total: 10}.Rate())
	assert.Equal(t, Fair, Record{Correct: 7, Total: 10}.Rate())
	assert.Equal(t, Weak, Record{Correct: 6, Total: 10}.Rate())
}

func TestHeatmapLayout(t *testing.T) {
	t.Parallel()

	s := Stats{}
	s.Record(Key{Category: Pair, Player: 11, Dealer: 11}, true)
	rows := s.Heatmap()
	require.Len(t, rows, 13+8+10)

	assert.Equal(t, "20", rows[0].Label)
	assert.Equal(t, "8", rows[12].Label)
	assert.Equal(t, "A,9", rows[13].Label)
	assert.Equal(t, "A,2", rows[20].Label)
	assert.Equal(t, "A,A", rows[21].Label)
	assert.Equal(t, "2,2", rows[30].Label)
	assert.Equal(t, 1, rows[21].Cells[9].Total)
}

func TestWeakest(t *testing.T) {
	t.Parallel()

	s := Stats{
		{Category: Hard, Player: 16, Dealer: 10}: {Correct: 1, Total: 4},
		{Category: Hard, Player: 12, Dealer: 3}:  {Correct: 1, Total: 8},
		{Category: Soft, Player: 18, Dealer: 9}:  {Correct: 0, Total: 1},
		{Category: Pair, Player: 8, Dealer: 10}:  {Correct: 5, Total: 5},
	}

	got := s.Weakest(2, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "H-12-3", got[0].Key.String())
	assert.Equal(t, "H-16-10", got[1].Key.String())

	assert.InDelta(t, 7.0/18.0, s.Accuracy(), 1e-9)
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	s := Stats{}
	c := s.Clone()
	c.Record(Key{Category: Hard, Player: 9, Dealer: 2}, true)
	assert.Empty(t, s)
	assert.NotNil(t, Stats(nil).Clone())
}
