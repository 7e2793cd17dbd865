// Package entropy is the randomness seam for the simulation. Every
// probabilistic decision in the engine draws from a Source so that tests can
// substitute deterministic sequences and hit every branch.
package entropy

import (
	"math/rand"
	"sync"
)

// Source yields uniform floats in [0, 1).
type Source interface {
	Float64() float64
}

// Rand is the production Source backed by math/rand.
type Rand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRand creates a seeded Source.
func NewRand(seed int64) *Rand {
	return &Rand{rng: rand.New(rand.NewSource(seed))}
}

func (r *Rand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// Script is a test Source that replays a fixed sequence, cycling when
// exhausted.
type Script struct {
	vals []float64
	i    int
}

// NewScript creates a Source from an explicit sequence. Panics on empty input
// so a misconfigured test fails loudly.
func NewScript(vals ...float64) *Script {
	if len(vals) == 0 {
		panic("entropy: empty script")
	}
	return &Script{vals: vals}
}

func (s *Script) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

// Intn returns an int in [0, n). n must be positive.
func Intn(s Source, n int) int {
	if n <= 0 {
		return 0
	}
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Between returns an int in [lo, hi).
func Between(s Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + Intn(s, hi-lo)
}

// Chance returns true with probability p.
func Chance(s Source, p float64) bool {
	return s.Float64() < p
}

// Spread returns a float in [-w, +w).
func Spread(s Source, w float64) float64 {
	return s.Float64()*2*w - w
}
