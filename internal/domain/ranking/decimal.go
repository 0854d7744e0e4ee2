// Package ranking implements the in-memory, concurrent customer leaderboard:
// a sharded score map, a level-linked span-augmented ranking index (skip
// list), and the striped-lock concurrency envelope around both.
package ranking

import "math"

// scale is the fixed-point scaling factor applied to every score and delta.
// Four decimal places is enough headroom for repeated bounded-range deltas
// (the caller rejects deltas outside [-1000, 1000] by default) without the
// precision loss that plain float64 accumulation would introduce over many
// updates.
const scale = 1_0000

// Score is a signed fixed-point decimal value. The zero Score represents 0.
// Scores are compared and ordered as exact integers internally, so two
// scores are equal iff their underlying representations are equal.
type Score int64

// NewScore converts a float64 delta/score (e.g. as decoded from JSON) into
// a fixed-point Score.
func NewScore(f float64) Score {
	return Score(math.Round(f * scale))
}

// Float64 returns the score as a float64, for display and JSON encoding.
func (s Score) Float64() float64 {
	return float64(s) / scale
}

// Positive reports whether the score is strictly positive — the sole
// participation criterion for the leaderboard.
func (s Score) Positive() bool {
	return s > 0
}

// Add returns s+d, panicking on overflow. Score arithmetic overflow is
// treated as fatal per the core's error taxonomy: there is no meaningful
// recovery once a score would exceed the representable range.
func (s Score) Add(d Score) Score {
	sum := s + d
	// Overflow check: if the operands share a sign and the result's sign
	// differs from theirs, the addition wrapped around int64's range.
	if (s > 0 && d > 0 && sum < 0) || (s < 0 && d < 0 && sum > 0) {
		panic("ranking: score overflow")
	}
	return sum
}
