package drill

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Category is the hand shape a decision was made on.
type Category byte

const (
	Hard Category = 'H'
	Soft Category = 'S'
	Pair Category = 'P'
)

// Key identifies one decision scenario. Player is the hand total for hard and
// soft hands and the card value for pairs; Dealer is the upcard value with
// the Ace as 11.
type Key struct {
	Category Category
	Player   int
	Dealer   int
}

// KeyFor classifies a hand against an upcard.
func KeyFor(cards []deck.Card, upcard deck.Card) Key {
	k := Key{Dealer: upcard.Value()}
	switch {
	case deck.IsPair(cards):
		k.Category, k.Player = Pair, cards[0].Value()
	case deck.IsSoft(cards):
		k.Category, k.Player = Soft, deck.Score(cards)
	default:
		k.Category, k.Player = Hard, deck.Score(cards)
	}
	return k
}

// String formats the key as "H-12-4".
func (k Key) String() string {
	return fmt.Sprintf("%c-%d-%d", k.Category, k.Player, k.Dealer)
}

// ParseKey parses the String form.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 1 {
		return Key{}, fmt.Errorf("invalid stat key %q", s)
	}
	cat := Category(parts[0][0])
	if cat != Hard && cat != Soft && cat != Pair {
		return Key{}, fmt.Errorf("invalid stat key %q: unknown category", s)
	}
	p, err := strconv.Atoi(parts[1])
	if err != nil {
		return Key{}, fmt.Errorf("invalid stat key %q: %w", s, err)
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil {
		return Key{}, fmt.Errorf("invalid stat key %q: %w", s, err)
	}
	return Key{Category: cat, Player: p, Dealer: d}, nil
}

func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(b []byte) error {
	parsed, err := ParseKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Record counts decisions for one scenario.
type Record struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Accuracy returns the fraction of correct decisions, 0 when unseen.
func (r Record) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// Rating buckets a record for display.
type Rating int

const (
	Unseen Rating = iota
	Weak
	Fair
	Good
)

// Rate returns Good at 90% or better, Fair at 70% or better, else Weak.
func (r Record) Rate() Rating {
	switch acc := r.Accuracy(); {
	case r.Total == 0:
		return Unseen
	case acc >= 0.9:
		return Good
	case acc >= 0.7:
		return Fair
	default:
		return Weak
	}
}

// Stats maps scenarios to their records. It serialises as a JSON object
// keyed by Key.String.
type Stats map[Key]Record

// Record adds one observation.
func (s Stats) Record(k Key, correct bool) {
	r := s[k]
	r.Total++
	if correct {
		r.Correct++
	}
	s[k] = r
}

// Clone returns an independent copy.
func (s Stats) Clone() Stats {
	if s == nil {
		return Stats{}
	}
	return maps.Clone(s)
}

// Totals sums every scenario.
func (s Stats) Totals() Record {
	var out Record
	for _, r := range s {
		out.Correct += r.Correct
		out.Total += r.Total
	}
	return out
}

// Accuracy is the overall fraction of correct decisions.
func (s Stats) Accuracy() float64 {
	return s.Totals().Accuracy()
}

// DealerValues are the heatmap columns, 2 through Ace.
var DealerValues = [...]int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11}

// Row is one heatmap line.
type Row struct {
	Category Category
	Player   int
	Label    string
	Cells    [len(DealerValues)]Record
}

// Heatmap lays the stats out as hard 20 down to 8, soft 20 down to 13 and
// pairs A, 10 down to 2.
func (s Stats) Heatmap() []Row {
	var rows []Row
	add := func(cat Category, player int, label string) {
		row := Row{Category: cat, Player: player, Label: label}
		for i, d := range DealerValues {
			row.Cells[i] = s[Key{Category: cat, Player: player, Dealer: d}]
		}
		rows = append(rows, row)
	}

	for total := 20; total >= 8; total-- {
		add(Hard, total, strconv.Itoa(total))
	}
	for total := 20; total >= 13; total-- {
		add(Soft, total, fmt.Sprintf("A,%d", total-11))
	}
	add(Pair, 11, "A,A")
	for v := 10; v >= 2; v-- {
		add(Pair, v, fmt.Sprintf("%d,%d", v, v))
	}
	return rows
}

// Entry pairs a key with its record.
type Entry struct {
	Key    Key
	Record Record
}

// Weakest returns up to n scenarios with at least minSamples decisions,
// lowest accuracy first. Ties go to the scenario seen more often.
func (s Stats) Weakest(n, minSamples int) []Entry {
	var out []Entry
	for k, r := range s {
		if r.Total >= minSamples && r.Total > 0 {
			out = append(out, Entry{Key: k, Record: r})
		}
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(a.Record.Accuracy(), b.Record.Accuracy()); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Record.Total, a.Record.Total); c != 0 {
			return c
		}
		return strings.Compare(a.Key.String(), b.Key.String())
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
