package deck

// Score returns the best blackjack total for cards. Aces count 11 and are
// reduced to 1 one at a time, only while the total is over 21.
func Score(cards []Card) int {
	total, _ := score(cards)
	return total
}

// IsSoft reports whether at least one Ace is still counted as 11.
func IsSoft(cards []Card) bool {
	_, soft := score(cards)
	return soft
}

// IsBlackjack reports a two-card 21.
func IsBlackjack(cards []Card) bool {
	return len(cards) == 2 && Score(cards) == 21
}

// IsPair reports two cards of equal blackjack value, which is what the table
// allows to be split (K and 10 split together).
func IsPair(cards []Card) bool {
	return len(cards) == 2 && cards[0].Value() == cards[1].Value()
}

func score(cards []Card) (int, bool) {
	total, aces := 0, 0
	for _, c := range cards {
		total += c.Value()
		if c.IsAce() {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces > 0
}
