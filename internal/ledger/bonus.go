package ledger

import "time"

const (
	// StreakLength winning rounds in a row earn StreakBonus.
	StreakLength = 3
	StreakBonus  = 50

	DailyBonus    = 500
	DailyInterval = 24 * time.Hour
)

// RecordRound updates the win streak and returns the bonus credited to
// seat 0, if any. Push-only rounds leave the streak alone.
func (b *Book) RecordRound(anyWin, anyLoss bool) int {
	switch {
	case anyWin:
		b.Streak++
		if b.Streak%StreakLength == 0 && len(b.Seats) > 0 {
			b.Seats[0].Credit(StreakBonus)
			return StreakBonus
		}
	case anyLoss:
		b.Streak = 0
	}
	return 0
}

// DailyAvailable reports whether the daily bonus can be claimed at now.
func (b Book) DailyAvailable(now time.Time) bool {
	return b.LastDaily.IsZero() || now.Sub(b.LastDaily) > DailyInterval
}

// ClaimDaily credits the daily bonus to seat 0 and stamps the claim time.
func (b *Book) ClaimDaily(now time.Time) bool {
	if !b.DailyAvailable(now) || len(b.Seats) == 0 {
		return false
	}
	b.Seats[0].Credit(DailyBonus)
	b.LastDaily = now
	return true
}
