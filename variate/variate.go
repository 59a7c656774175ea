// Package variate provides the random variates that drive an epidemic run.
//
// Every Generator owns its random source and is seeded explicitly, so that a
// run can be replayed and so that independent trials never share state.
package variate

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// ErrInvalidParameter is returned when a distribution parameter is out of
// range.
var ErrInvalidParameter = errors.New("invalid parameter")

// ErrSampling is returned when a sample cannot be drawn as requested.
var ErrSampling = errors.New("sampling error")

// smallPool is the pool size below which SampleIndices always shuffles the
// whole pool instead of drawing unique indices one at a time.
const smallPool = 100

// streamSalt selects the PCG stream from the seed.
const streamSalt = 0x9e3779b97f4a7c15

// A Generator produces uniform and exponential variates. It is not safe for
// concurrent use; give every goroutine its own Generator.
type Generator struct {
	seed uint64
	r    *rand.Rand
}

// New creates a Generator whose sequence is fully determined by seed.
func New(seed uint64) *Generator {
	return &Generator{
		seed: seed,
		r:    rand.New(rand.NewPCG(seed, seed^streamSalt)),
	}
}

// Seed returns the seed the Generator was created with.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// Fork derives a new, independent Generator from the next value of g. Forking
// the same parent in the same order always yields the same children.
func (g *Generator) Fork() *Generator {
	return New(g.r.Uint64())
}

// UniformReal draws a real number in [lo, hi).
func (g *Generator) UniformReal(lo, hi float64) float64 {
	v := lo + g.r.Float64()*(hi-lo)
	if v >= hi {
		return lo
	}

	return v
}

// UniformInt draws an integer in [lo, hi], both bounds included. It panics if
// hi < lo.
func (g *Generator) UniformInt(lo, hi int) int {
	if hi < lo {
		panic(fmt.Sprintf("variate: empty integer range [%d, %d]", lo, hi))
	}

	return lo + g.r.IntN(hi-lo+1)
}

// ExponentialInterval draws the waiting time until the next occurrence of a
// Poisson process with the given rate, computed as -ln(u)/rate with u drawn
// from the open interval (0, 1).
func (g *Generator) ExponentialInterval(rate float64) (float64, error) {
	if !(rate > 0) || math.IsInf(rate, 1) {
		return 0, fmt.Errorf("%w: exponential rate must be positive and finite, got %v",
			ErrInvalidParameter, rate)
	}

	return -math.Log(g.openUnit()) / rate, nil
}

func (g *Generator) openUnit() float64 {
	for {
		u := g.r.Float64()
		if u > 0 {
			return u
		}
	}
}

// Shuffle pseudo-randomizes the order of n elements using swap.
func (g *Generator) Shuffle(n int, swap func(i, j int)) {
	g.r.Shuffle(n, swap)
}

// SampleIndices draws min(n, size) distinct indices from [0, size) without
// replacement. The result order is random. An empty pool yields an empty
// sample rather than an error.
//
// Small pools, and requests that cover the whole pool, are served by
// shuffling all the indices and keeping the first n. Otherwise unique indices
// are drawn one by one, always strictly below size.
func (g *Generator) SampleIndices(n, size int) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative sample size %d", ErrSampling, n)
	}

	if size < 0 {
		return nil, fmt.Errorf("%w: negative population size %d",
			ErrInvalidParameter, size)
	}

	if n >= size || size < smallPool {
		perm := g.r.Perm(size)
		if n < size {
			perm = perm[:n]
		}

		return perm, nil
	}

	chosen := make(map[int]struct{}, n)
	sample := make([]int, 0, n)

	for len(sample) < n {
		idx := g.r.IntN(size)
		if _, dup := chosen[idx]; dup {
			continue
		}

		chosen[idx] = struct{}{}
		sample = append(sample, idx)
	}

	return sample, nil
}

// Sample returns min(n, len(items)) distinct elements of items, chosen
// uniformly without replacement.
func Sample[T any](g *Generator, n int, items []T) ([]T, error) {
	indices, err := g.SampleIndices(n, len(items))
	if err != nil {
		return nil, err
	}

	sampled := make([]T, len(indices))
	for i, idx := range indices {
		sampled[i] = items[idx]
	}

	return sampled, nil
}
