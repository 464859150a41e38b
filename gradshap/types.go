// Package gradshap: construction options, per-call options and errors.
package gradshap

import (
	"errors"
	"math/rand/v2"

	"github.com/grale-ml/grale/core"
)

// ErrScalarBaseline is returned when GradientShap receives baselines that
// do not resolve to a tensor bundle: a distribution needs a sample pool to
// draw from.
var ErrScalarBaseline = errors.New("gradshap: baseline distribution must be a tensor bundle")

// settings collects construction-time configuration shared by both
// attributor types.
type settings struct {
	gradient         core.GradientFunc
	multiplyByInputs bool
	src              rand.Source
}

func defaultSettings() settings {
	return settings{gradient: core.NumericGradients, multiplyByInputs: true}
}

// Option customizes attributor construction.
type Option func(*settings)

// WithGradientFunc plugs in a gradient engine (an autodiff backend, an
// analytic gradient, ...). A nil engine panics: supplying one and meaning
// "none" is a programmer error; the default is core.NumericGradients.
func WithGradientFunc(g core.GradientFunc) Option {
	if g == nil {
		panic("gradshap: WithGradientFunc(nil)")
	}
	return func(s *settings) { s.gradient = g }
}

// WithoutInputMultiplier disables the final ×(input − baseline) scaling,
// yielding "local" attribution: raw gradients at the interpolated points.
func WithoutInputMultiplier() Option {
	return func(s *settings) { s.multiplyByInputs = false }
}

// WithRand fixes the random source used for interpolation coefficients
// (and, for GradientShap, noise and baseline draws). nil keeps the
// process-wide source.
func WithRand(src rand.Source) Option {
	return func(s *settings) { s.src = src }
}

// DefaultSamples is the trial count used when Options.Samples is zero.
const DefaultSamples = 5

// Options configures one GradientShap.Attribute call.
//
// Fields:
//   - Samples   — number of noise/baseline draws per example
//     (0 ⇒ DefaultSamples).
//   - Stdevs    — per-input-tensor noise standard deviations; empty ⇒ no
//     noise (0.0), a single value broadcasts.
//   - Target    — model output column under attribution.
//   - ExtraArgs — forwarded to the model untouched.
//   - ReturnConvergenceDelta — also return the per-trial completeness
//     diagnostic.
//   - Rand      — random source for this call; nil ⇒ the source fixed at
//     construction (or the process-wide one).
type Options struct {
	Samples                int
	Stdevs                 []float64
	Target                 core.Target
	ExtraArgs              []any
	ReturnConvergenceDelta bool
	Rand                   rand.Source
}

// DefaultOptions returns the canonical defaults: DefaultSamples trials,
// no noise, no target.
func DefaultOptions() Options {
	return Options{Samples: DefaultSamples}
}
