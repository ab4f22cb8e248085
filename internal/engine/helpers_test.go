package engine

import (
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/stretchr/testify/require"
)

// stacked returns a one-seat table without the risk-free round whose shoe
// deals cards in the given order.
func stacked(t *testing.T, cards string) State {
	t.Helper()
	s := NewState(1, DefaultRules(), 1)
	s.Shoe = deck.NewStackedShoe(deck.MustParseCards(cards))
	s.Book.RiskFree = false
	return s
}

func apply(t *testing.T, s State, actions ...Action) State {
	t.Helper()
	for _, a := range actions {
		next, err := Reduce(s, a)
		require.NoError(t, err, "%T: %s", a, next.Message)
		s = next
	}
	return s
}

func bet(amount, spot int) PlaceBet {
	return PlaceBet{Amount: amount, Type: ledger.Main, Spot: spot}
}

// playOut stands on every hand and declines insurance until the round
// settles.
func playOut(t *testing.T, s State) State {
	t.Helper()
	for s.Phase != PhaseResolving {
		switch s.Phase {
		case PhaseInsurance:
			s = apply(t, s, ResolveInsurance{Buy: false})
		case PhasePlayerTurn:
			s = apply(t, s, Stand{})
		default:
			t.Fatalf("stuck in phase %s", s.Phase)
		}
	}
	return s
}

func power(s State, seat int) int {
	return s.Book.Seats[seat].SpendingPower
}
