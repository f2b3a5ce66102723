// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package variation is the sole source of controlled randomness in the
// composition core. No other package may call math/rand's package-level
// functions; every call to a PRNG flows through an Engine instance owned by
// one generation, so concurrent generations never share or contend on a
// single global source and a rapid sequence of calls never degenerates into
// repetition from a coarse shared seed.
package variation

import (
	"fmt"
	"math"
	"math/rand"
)

// Engine is a per-generation pseudo-random source. It must never be shared
// across concurrent generations.
type Engine struct {
	rng *rand.Rand
}

// New seeds an Engine from the concatenation of a caller-supplied wall-clock
// nanosecond reading, the session id and a monotonically increasing
// generation counter. Passing the wall clock in lets callers (and tests)
// control determinism without the engine ever touching time.Now itself.
func New(nanos int64, sessionID string, generationCounter int) *Engine {
	seed := hashSeed(nanos, sessionID, generationCounter)
	return &Engine{rng: rand.New(rand.NewSource(seed))}
}

// hashSeed combines the three seed components with a simple FNV-1a style
// fold so that consecutive calls within the same nanosecond still diverge
// because of the session id and counter.
func hashSeed(nanos int64, sessionID string, counter int) int64 {
	var h uint64 = 14695981039346656037
	mix := func(b byte) {
		h ^= uint64(b)
		h *= 1099511628211
	}
	buf := fmt.Sprintf("%d|%s|%d", nanos, sessionID, counter)
	for i := 0; i < len(buf); i++ {
		mix(buf[i])
	}
	return int64(h)
}

// Uniform returns a float64 drawn uniformly from [lo, hi).
func (e *Engine) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + e.rng.Float64()*(hi-lo)
}

// IntRange returns an int drawn uniformly from [lo, hi] inclusive.
func (e *Engine) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + e.rng.Intn(hi-lo+1)
}

// Choose returns a uniformly random element of seq. It panics on an empty
// slice; callers are expected to check length first since an empty choice
// set is a programming error, not a runtime condition.
func Choose[T any](e *Engine, seq []T) T {
	return seq[e.rng.Intn(len(seq))]
}

// WeightedChoice returns the element of items chosen with probability
// proportional to the matching entry in weights. weights must be the same
// length as items and sum to a positive number.
func WeightedChoice[T any](e *Engine, items []T, weights []float64) T {
	var total float64
	for _, w := range weights {
		total += w
	}
	r := e.rng.Float64() * total
	var running float64
	for i, w := range weights {
		running += w
		if r < running {
			return items[i]
		}
	}
	return items[len(items)-1]
}

// Bernoulli returns true with probability p.
func (e *Engine) Bernoulli(p float64) bool {
	return e.rng.Float64() < p
}

// Gaussian returns a sample from N(mu, sigma^2).
func (e *Engine) Gaussian(mu, sigma float64) float64 {
	return mu + e.rng.NormFloat64()*sigma
}

// JitterTiming perturbs a beat position by N(0, sigma), clamped to be
// non-negative.
func (e *Engine) JitterTiming(beats, sigma float64) float64 {
	v := beats + e.Gaussian(0, sigma)
	if v < 0 {
		v = 0
	}
	return v
}

// JitterVelocity perturbs a MIDI velocity by N(0, sigma), clamped to
// [30, 120].
func (e *Engine) JitterVelocity(v int, sigma float64) int {
	f := float64(v) + e.Gaussian(0, sigma)
	return ClampVelocity(int(math.Round(f)))
}

// ClampVelocity restricts a velocity to the humanizer's working range.
func ClampVelocity(v int) int {
	if v < 30 {
		return 30
	}
	if v > 120 {
		return 120
	}
	return v
}

// Shuffle permutes slc in place using the Fisher-Yates algorithm, drawing
// from this Engine instead of a package-level source.
func Shuffle[T any](e *Engine, slc []T) {
	n := len(slc)
	for i := 0; i < n; i++ {
		r := i + e.rng.Intn(n-i)
		slc[r], slc[i] = slc[i], slc[r]
	}
}
