// Package strategy holds the basic-strategy advisor and the Hi-Lo card counter.
package strategy

import "fmt"

// Move is a player decision on a hand.
type Move int

const (
	Hit Move = iota
	Stand
	Double
	Split
	Surrender
)

// String returns the lowercase name of the move.
func (m Move) String() string {
	switch m {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	case Surrender:
		return "surrender"
	default:
		return "unknown"
	}
}

// ParseMove converts a move name back into a Move.
func ParseMove(s string) (Move, error) {
	switch s {
	case "hit", "h":
		return Hit, nil
	case "stand", "s":
		return Stand, nil
	case "double", "d":
		return Double, nil
	case "split", "p":
		return Split, nil
	case "surrender", "r":
		return Surrender, nil
	default:
		return 0, fmt.Errorf("unknown move %q", s)
	}
}

// IsCorrect reports whether taken matches the recommendation. Hitting where a
// double is recommended is accepted, since doubling is not always available.
func IsCorrect(recommended, taken Move) bool {
	return recommended == taken || (recommended == Double && taken == Hit)
}
