package gradshap

import (
	"fmt"

	"github.com/grale-ml/grale/core"
	"github.com/grale-ml/grale/noisetunnel"
	"github.com/grale-ml/grale/tensor"
)

// GradientShap approximates SHAP values as the expectation of
// (gradient × (input − baseline)) over noisy inputs and baselines drawn
// from a reference distribution. It composes InputBaselineGradient with a
// noise tunnel in Smoothgrad (mean) mode and baseline draws enabled.
type GradientShap struct {
	forward core.ForwardFunc
	cfg     settings
}

// New builds a GradientShap attributor over forward.
// Defaults: core.NumericGradients engine, input multiplier enabled,
// process-wide random source. Customize with WithGradientFunc,
// WithoutInputMultiplier, WithRand.
func New(forward core.ForwardFunc, opts ...Option) (*GradientShap, error) {
	if forward == nil {
		return nil, fmt.Errorf("gradshap: %w", core.ErrNilForward)
	}
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GradientShap{forward: forward, cfg: cfg}, nil
}

// Capabilities implements core.Attributor-style introspection.
func (g *GradientShap) Capabilities() core.Capabilities {
	return core.Capabilities{
		HasConvergenceDelta: true,
		IsGradientBased:     true,
		MultipliesByInputs:  g.cfg.multiplyByInputs,
	}
}

// Attribute computes GradientSHAP attributions for inputs against the
// baseline distribution.
//
// baselines may be a tensor bundle (its example axis is the sample pool —
// more than one reference example is recommended) or a generator function;
// generators are resolved first, optionally against inputs. A baseline
// that does not resolve to a tensor bundle fails with ErrScalarBaseline:
// there is nothing to sample from.
//
// Each of opts.Samples trials independently perturbs the input with
// Gaussian noise (opts.Stdevs; default no noise) and draws one baseline
// example per input example from the pool; the returned attribution is the
// mean over trials. With opts.ReturnConvergenceDelta, Result.Delta holds
// one scalar per example per trial, in trial order (length B·Samples).
func (g *GradientShap) Attribute(inputs []*tensor.Tensor, baselines core.Baselines, opts Options) (*core.Result, error) {
	resolved, err := baselines.Resolve(inputs)
	if err != nil {
		return nil, err
	}
	if !resolved.IsTensorBundle() {
		return nil, ErrScalarBaseline
	}

	src := opts.Rand
	if src == nil {
		src = g.cfg.src
	}

	inner, err := NewInputBaselineGradient(g.forward,
		WithGradientFunc(g.cfg.gradient), WithRand(src), multiplier(g.cfg.multiplyByInputs))
	if err != nil {
		return nil, err
	}
	tunnel, err := noisetunnel.New(inner)
	if err != nil {
		return nil, err
	}

	stdevs := opts.Stdevs
	if len(stdevs) == 0 {
		stdevs = []float64{0} // GradientSHAP defaults to no input noise
	}
	samples := opts.Samples
	if samples == 0 {
		samples = DefaultSamples
	}

	return tunnel.Attribute(inputs,
		core.Config{
			Baselines:              resolved,
			Target:                 opts.Target,
			ExtraArgs:              opts.ExtraArgs,
			ReturnConvergenceDelta: opts.ReturnConvergenceDelta,
		},
		noisetunnel.Options{
			Mode:                    noisetunnel.Smoothgrad,
			Samples:                 samples,
			Stdevs:                  stdevs,
			DrawBaselineFromDistrib: true,
			Rand:                    src,
		})
}

// AttributeFuture is the asynchronous attribution entry point. It is not
// implemented for GradientShap.
func (g *GradientShap) AttributeFuture([]*tensor.Tensor, core.Baselines, Options) (*core.Result, error) {
	return nil, fmt.Errorf("gradshap: AttributeFuture: %w", core.ErrNotSupported)
}

// multiplier translates a bool back into the corresponding Option.
func multiplier(on bool) Option {
	if on {
		return func(*settings) {}
	}
	return WithoutInputMultiplier()
}
