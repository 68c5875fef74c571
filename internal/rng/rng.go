// Package rng provides the seeded pseudo-random stream used to draw
// expression trees and color polynomials.
//
// A Stream is strictly sequential. The exact sequence of draws made from a
// Stream is part of the reproducibility contract of generated images, so a
// Stream must never be shared between goroutines or consulted in parallel.
package rng

import "math/rand/v2"

// Stream is a deterministic random stream seeded from a 32-bit seed.
type Stream struct {
	r *rand.Rand
}

// New returns a Stream seeded with seed. Two streams created with the same
// seed produce identical sequences.
func New(seed uint32) *Stream {
	s := uint64(seed)
	return &Stream{r: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

// IntN returns a uniform integer in [0, n). It panics if n <= 0.
func (s *Stream) IntN(n int) int {
	return s.r.IntN(n)
}

// IntRange returns a uniform integer in the closed interval [lo, hi].
// If hi < lo the result is lo.
func (s *Stream) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.IntN(hi-lo+1)
}

// Float returns a uniform value in [lo, hi).
func (s *Stream) Float(lo, hi float64) float64 {
	return lo + (hi-lo)*s.r.Float64()
}
