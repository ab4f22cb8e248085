package statistics

import (
	"fmt"
	"math"
	"sort"
)

// MinCount and MaxCount bound the true-count buckets; counts outside are
// clamped into the end buckets.
const (
	MinCount = -5
	MaxCount = 5
)

// RoundResult represents the outcome of a single blackjack round
type RoundResult struct {
	Net        float64 // Net result in base-bet units
	Wagered    int     // Chips put at risk, including doubles and splits
	Returned   int     // Chips paid back
	TrueCount  int     // True count before the deal
	Hands      int     // Hands played after splits
	Natural    bool    // Player was dealt blackjack
	Doubled    bool    // Any hand was doubled
	Split      bool    // The starting hand was split
	Surrender  bool    // The hand was surrendered
	DealerBust bool    // Dealer finished over 21
}

// CountStats tracks statistics for one true-count bucket
type CountStats struct {
	Rounds int
	Sum    float64
	Sum2   float64
}

// Statistics accumulates simulated blackjack rounds
type Statistics struct {
	Rounds int
	Sum    float64
	Sum2   float64   // Sum of squares for variance calculation
	Values []float64 `json:"-"` // Store all values for median/percentile calculation

	Wins   int
	Losses int
	Pushes int

	Naturals    int
	Doubles     int
	Splits      int
	Surrenders  int
	DealerBusts int
	Hands       int

	Wagered  int
	Returned int

	// Results by true count, index 0 is MinCount
	CountResults [MaxCount - MinCount + 1]CountStats
}

func countIndex(tc int) int {
	return min(max(tc, MinCount), MaxCount) - MinCount
}

// Mean returns the average result per round in base-bet units
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.Sum / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.Sum2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Edge returns the player's return on money wagered, negative when the
// house wins.
func (s *Statistics) Edge() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return float64(s.Returned-s.Wagered) / float64(s.Wagered)
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(r RoundResult) {
	s.Rounds++
	s.Sum += r.Net
	s.Sum2 += r.Net * r.Net
	s.Values = append(s.Values, r.Net)

	switch {
	case r.Net > 0:
		s.Wins++
	case r.Net < 0:
		s.Losses++
	default:
		s.Pushes++
	}

	if r.Natural {
		s.Naturals++
	}
	if r.Doubled {
		s.Doubles++
	}
	if r.Split {
		s.Splits++
	}
	if r.Surrender {
		s.Surrenders++
	}
	if r.DealerBust {
		s.DealerBusts++
	}
	s.Hands += r.Hands
	s.Wagered += r.Wagered
	s.Returned += r.Returned

	c := &s.CountResults[countIndex(r.TrueCount)]
	c.Rounds++
	c.Sum += r.Net
	c.Sum2 += r.Net * r.Net
}

// Merge adds every round recorded in o.
func (s *Statistics) Merge(o *Statistics) {
	s.Rounds += o.Rounds
	s.Sum += o.Sum
	s.Sum2 += o.Sum2
	s.Values = append(s.Values, o.Values...)
	s.Wins += o.Wins
	s.Losses += o.Losses
	s.Pushes += o.Pushes
	s.Naturals += o.Naturals
	s.Doubles += o.Doubles
	s.Splits += o.Splits
	s.Surrenders += o.Surrenders
	s.DealerBusts += o.DealerBusts
	s.Hands += o.Hands
	s.Wagered += o.Wagered
	s.Returned += o.Returned
	for i, c := range o.CountResults {
		s.CountResults[i].Rounds += c.Rounds
		s.CountResults[i].Sum += c.Sum
		s.CountResults[i].Sum2 += c.Sum2
	}
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// CountMean returns the mean result for rounds dealt at a true count
func (s *Statistics) CountMean(tc int) float64 {
	c := s.CountResults[countIndex(tc)]
	if c.Rounds == 0 {
		return 0
	}
	return c.Sum / float64(c.Rounds)
}

// IsLedgerBalanced checks that the count buckets add up to the totals
func (s *Statistics) IsLedgerBalanced() bool {
	sum := 0.0
	for _, c := range s.CountResults {
		sum += c.Sum
	}
	return math.Abs(s.Sum-sum) <= 1e-6
}

// Validate performs consistency checks on the collected data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: sum=%.6f does not match count buckets", s.Sum)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	if s.Wins+s.Losses+s.Pushes != s.Rounds {
		return fmt.Errorf("outcomes (%d) do not match rounds (%d)", s.Wins+s.Losses+s.Pushes, s.Rounds)
	}

	if s.Hands < s.Rounds {
		return fmt.Errorf("hands played (%d) is below rounds (%d)", s.Hands, s.Rounds)
	}

	totalCountRounds := 0
	for _, c := range s.CountResults {
		totalCountRounds += c.Rounds
	}
	if totalCountRounds != s.Rounds {
		return fmt.Errorf("count bucket rounds (%d) do not match total rounds (%d)",
			totalCountRounds, s.Rounds)
	}

	return nil
}
