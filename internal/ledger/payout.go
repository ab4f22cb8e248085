package ledger

import "math"

// Settlement is how a hand finished against the dealer.
type Settlement int

const (
	Lose Settlement = iota
	Push
	Win
	Natural
)

// DefaultBlackjackPayout pays naturals 3:2.
const DefaultBlackjackPayout = 1.5

// Payout returns the total credited for a settled hand, stake included.
// Fractional natural payouts are rounded down.
func Payout(bet int, s Settlement, blackjackPayout float64) int {
	switch s {
	case Win:
		return bet * 2
	case Natural:
		return bet + int(math.Floor(float64(bet)*blackjackPayout))
	case Push:
		return bet
	default:
		return 0
	}
}

// SurrenderRefund is the half stake returned the moment a hand surrenders.
func SurrenderRefund(bet int) int {
	return bet / 2
}

// InsuranceCost is the stake charged for insuring totalBet.
func InsuranceCost(totalBet int) int {
	return totalBet / 2
}

// InsurancePayout is the credit for a winning insurance stake (2:1 plus the
// stake back).
func InsurancePayout(stake int) int {
	return stake * 3
}

// ConsumeRiskFree reports whether the risk-free refund applies to a round
// that ended as a pure loss, and clears the flag after the first settled
// round either way.
func (b *Book) ConsumeRiskFree(pureLoss bool) bool {
	if !b.RiskFree {
		return false
	}
	b.RiskFree = false
	return pureLoss
}
