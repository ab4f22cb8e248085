package strategy

import "github.com/lox/blackjack/internal/deck"

// Recommend maps a player hand and the dealer upcard to the basic-strategy
// move. The table is a simplified approximation: it never recommends
// surrender and omits several double-versus-stand refinements.
func Recommend(cards []deck.Card, upcard deck.Card) Move {
	d := upcard.Value()

	if deck.IsPair(cards) {
		if m, ok := pairMove(cards[0].Rank, d); ok {
			return m
		}
	}

	total := deck.Score(cards)
	if deck.IsSoft(cards) {
		if m, ok := softMove(total, d); ok {
			return m
		}
	}
	return hardMove(total, d)
}

func pairMove(rank deck.Rank, d int) (Move, bool) {
	switch rank {
	case deck.Ace, deck.Eight:
		return Split, true
	case deck.Nine:
		if d != 7 && d != 10 && d != 11 {
			return Split, true
		}
	case deck.Seven:
		if d <= 7 {
			return Split, true
		}
	case deck.Six:
		if d <= 6 {
			return Split, true
		}
	case deck.Three, deck.Two:
		if d <= 7 {
			return Split, true
		}
	case deck.Five:
		if d <= 9 {
			return Double, true
		}
		return Hit, true
	case deck.Four:
		if d == 5 || d == 6 {
			return Split, true
		}
	}
	return 0, false
}

func softMove(total, d int) (Move, bool) {
	switch {
	case total >= 20:
		return Stand, true
	case total == 19:
		if d == 6 {
			return Double, true
		}
		return Stand, true
	case total == 18:
		if d >= 2 && d <= 6 {
			return Double, true
		}
		if d >= 9 {
			return Hit, true
		}
		return Stand, true
	case total == 17:
		if d >= 3 && d <= 6 {
			return Double, true
		}
		return Hit, true
	case total == 15 || total == 16:
		if d >= 4 && d <= 6 {
			return Double, true
		}
		return Hit, true
	case total == 13 || total == 14:
		if d == 5 || d == 6 {
			return Double, true
		}
		return Hit, true
	}
	return 0, false
}

func hardMove(total, d int) Move {
	switch {
	case total >= 17:
		return Stand
	case total >= 13:
		if d >= 2 && d <= 6 {
			return Stand
		}
		return Hit
	case total == 12:
		if d >= 4 && d <= 6 {
			return Stand
		}
		return Hit
	case total == 11:
		return Double
	case total == 10:
		if d >= 10 {
			return Hit
		}
		return Double
	case total == 9:
		if d >= 3 && d <= 6 {
			return Double
		}
		return Hit
	default:
		return Hit
	}
}
