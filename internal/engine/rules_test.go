package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRulesValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Rules)
		wantErr bool
	}{
		{"defaults", func(*Rules) {}, false},
		{"single deck", func(r *Rules) { r.Decks = 1 }, false},
		{"three decks", func(r *Rules) { r.Decks = 3 }, true},
		{"zero payout", func(r *Rules) { r.BlackjackPayout = 0 }, true},
		{"zero min", func(r *Rules) { r.MinBet = 0 }, true},
		{"max below min", func(r *Rules) { r.MaxBet = 5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := DefaultRules()
			tt.mutate(&r)
			if tt.wantErr {
				assert.Error(t, r.Validate())
			} else {
				assert.NoError(t, r.Validate())
			}
		})
	}
}

func TestRulesApply(t *testing.T) {
	t.Parallel()

	s17 := false
	payout := 1.2
	r := DefaultRules().Apply(RulesPatch{DealerHitsSoft17: &s17, BlackjackPayout: &payout})

	assert.False(t, r.DealerHitsSoft17)
	assert.Equal(t, 1.2, r.BlackjackPayout)
	assert.Equal(t, 6, r.Decks)
	assert.True(t, r.SurrenderAllowed)
}
