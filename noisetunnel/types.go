// Package noisetunnel: smoothing modes, options and sentinel errors.
package noisetunnel

import (
	"errors"
	"math/rand/v2"
	"strconv"
)

// SmoothingMode selects the statistic computed over the sampled
// attributions.
type SmoothingMode int

const (
	// Smoothgrad returns the mean of the sampled attributions.
	Smoothgrad SmoothingMode = iota

	// SmoothgradSq returns the mean of the squared sampled attributions.
	SmoothgradSq

	// Vargrad returns the variance of the sampled attributions, computed
	// as E[X²] − E[X]² (biased; no Bessel correction).
	Vargrad
)

// String implements fmt.Stringer.
func (m SmoothingMode) String() string {
	switch m {
	case Smoothgrad:
		return "smoothgrad"
	case SmoothgradSq:
		return "smoothgrad_sq"
	case Vargrad:
		return "vargrad"
	default:
		return "smoothing(" + strconv.Itoa(int(m)) + ")"
	}
}

// valid reports whether m is one of the enumerated modes.
func (m SmoothingMode) valid() bool {
	return m == Smoothgrad || m == SmoothgradSq || m == Vargrad
}

var (
	// ErrNilMethod is returned by New when given a nil attribution method.
	ErrNilMethod = errors.New("noisetunnel: attribution method is nil")

	// ErrBadSmoothingMode indicates a SmoothingMode outside the enumerated
	// set. Detected before any wrapped-method call.
	ErrBadSmoothingMode = errors.New("noisetunnel: unknown smoothing mode")

	// ErrBadSamples indicates a sample count below one.
	ErrBadSamples = errors.New("noisetunnel: sample count must be >= 1")

	// ErrBadStdevs indicates a stdev sequence whose length is neither one
	// (broadcast) nor the number of input tensors.
	ErrBadStdevs = errors.New("noisetunnel: stdevs length must be 1 or match the input bundle")
)

// DefaultSamples is the trial count used when Options.Samples is zero.
const DefaultSamples = 5

// DefaultStdev is the noise standard deviation used when Options.Stdevs is
// empty.
const DefaultStdev = 1.0

// Options configures one Attribute call.
//
// Fields:
//   - Mode            — the statistic to compute (default Smoothgrad).
//   - Samples         — total number of noisy trials per example
//     (0 ⇒ DefaultSamples).
//   - SampleBatchSize — how many trials are processed per sub-batch to
//     bound memory (0 ⇒ all Samples at once; larger values are clamped).
//   - Stdevs          — per-input-tensor noise standard deviations. Empty ⇒
//     DefaultStdev for every tensor; a single value broadcasts; otherwise
//     the length must equal the number of input tensors.
//   - DrawBaselineFromDistrib — treat the Config baselines as a sample
//     pool and draw one reference example per trial.
//   - Rand            — random source for noise and baseline draws; nil ⇒
//     the process-wide source (not reproducible).
type Options struct {
	Mode                    SmoothingMode
	Samples                 int
	SampleBatchSize         int
	Stdevs                  []float64
	DrawBaselineFromDistrib bool
	Rand                    rand.Source
}

// DefaultOptions returns the canonical defaults: Smoothgrad over
// DefaultSamples trials, one sub-batch, stdev DefaultStdev.
func DefaultOptions() Options {
	return Options{Mode: Smoothgrad, Samples: DefaultSamples}
}
