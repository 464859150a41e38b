// Package tensor: stochastic operations. All draws flow through gonum's
// distuv distributions over an explicit rand.Source, so callers that need
// reproducibility supply their own seeded source.
package tensor

import (
	"fmt"
	"math/rand/v2"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// processSource adapts the process-wide math/rand/v2 generator to
// rand.Source. It is the fallback when a caller passes a nil source; draws
// through it are safe for concurrent use but not reproducible.
type processSource struct{}

func (processSource) Uint64() uint64 { return rand.Uint64() }

// orProcess returns src, or the process-wide source when src is nil.
func orProcess(src rand.Source) rand.Source {
	if src == nil {
		return processSource{}
	}
	return src
}

// distSource adapts a math/rand/v2 source to the x/exp/rand.Source the
// gonum distributions consume. Seed is a no-op: seeding happens when the
// caller constructs the underlying source.
type distSource struct {
	src rand.Source
}

func (s distSource) Uint64() uint64 { return s.src.Uint64() }
func (s distSource) Seed(uint64)    {}

// forDist wraps src (or the process-wide fallback) for a distuv Src field.
func forDist(src rand.Source) exprand.Source {
	return distSource{src: orProcess(src)}
}

// AddGaussianNoise returns a copy of t with independent zero-mean Gaussian
// noise of the given standard deviation added to every element.
// stdev == 0 short-circuits: it returns a clean clone and consumes no draws.
func (t *Tensor) AddGaussianNoise(stdev float64, src rand.Source) (*Tensor, error) {
	if stdev < 0 {
		return nil, fmt.Errorf("AddGaussianNoise(%g): %w", stdev, ErrBadStdev)
	}
	out := t.Clone()
	if stdev == 0 {
		return out, nil
	}
	normal := distuv.Normal{Mu: 0, Sigma: stdev, Src: forDist(src)}
	for i := range out.data {
		out.data[i] += normal.Rand()
	}
	return out, nil
}

// UniformCoefficients draws n independent Uniform(0,1) samples. The
// baseline-gradient attributor uses one coefficient per example to pick a
// random point on the segment between baseline and input.
func UniformCoefficients(n int, src rand.Source) []float64 {
	uniform := distuv.Uniform{Min: 0, Max: 1, Src: forDist(src)}
	out := make([]float64, n)
	for i := range out {
		out[i] = uniform.Rand()
	}
	return out
}

// DrawRows samples n example rows from pool uniformly with replacement.
// This is the baseline-distribution draw: each trial independently picks
// one reference example from the pool's example axis.
func DrawRows(pool *Tensor, n int, src rand.Source) (*Tensor, error) {
	if n < 1 {
		return nil, fmt.Errorf("DrawRows(%d): %w", n, ErrBadShape)
	}
	idx := DrawIndices(pool.Batch(), n, src)
	return pool.GatherRows(idx)
}

// DrawIndices samples n indices uniformly from [0, batch) with replacement.
// Exposed so that a bundle of pool tensors can share one index draw per
// trial, keeping the drawn baseline examples aligned across the bundle.
func DrawIndices(batch, n int, src rand.Source) []int {
	r := rand.New(orProcess(src))
	idx := make([]int, n)
	for i := range idx {
		idx[i] = r.IntN(batch)
	}
	return idx
}
