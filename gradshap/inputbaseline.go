package gradshap

import (
	"fmt"

	"github.com/grale-ml/grale/core"
	"github.com/grale-ml/grale/tensor"
)

// InputBaselineGradient is the single-trial building block of GradientSHAP:
// it evaluates the model gradient at one random point on the segment
// between each example and its baseline, and (by default) scales the
// gradient by (input − baseline).
//
// The interpolation coefficient is drawn fresh per example on every call:
// one Uniform(0,1) scalar per example, shared across all input tensors and
// broadcast across feature axes.
type InputBaselineGradient struct {
	forward core.ForwardFunc
	cfg     settings
}

// NewInputBaselineGradient builds the attributor over forward.
// Defaults: core.NumericGradients engine, input multiplier enabled,
// process-wide random source. Customize with WithGradientFunc,
// WithoutInputMultiplier, WithRand.
func NewInputBaselineGradient(forward core.ForwardFunc, opts ...Option) (*InputBaselineGradient, error) {
	if forward == nil {
		return nil, fmt.Errorf("gradshap: %w", core.ErrNilForward)
	}
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &InputBaselineGradient{forward: forward, cfg: cfg}, nil
}

// Capabilities implements core.Attributor.
func (a *InputBaselineGradient) Capabilities() core.Capabilities {
	return core.Capabilities{
		HasConvergenceDelta: true,
		IsGradientBased:     true,
		MultipliesByInputs:  a.cfg.multiplyByInputs,
	}
}

// Attribute implements core.Attributor.
//
// Per input tensor i and example e:
//
//	scaled_e = c_e·input_e + (1−c_e)·baseline_e,   c_e ~ Uniform(0,1)
//	grad     = ∂ f(scaled) / ∂ scaled              (selected via cfg.Target)
//	attr     = grad ⊙ (input − baseline)           (or grad, without the
//	                                                input multiplier)
//
// Baselines materialize from cfg.Baselines (zeros when unset) and must
// match each input outside the example axis, with batch 1 (broadcast) or
// the input batch; anything else fails with tensor.ErrShapeMismatch before
// any gradient-engine call.
//
// When cfg.ReturnConvergenceDelta is set, Result.Delta holds the
// completeness diagnostic Σattr − (f(inputs) − f(baselines)), one scalar
// per example.
func (a *InputBaselineGradient) Attribute(inputs []*tensor.Tensor, cfg core.Config) (*core.Result, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("gradshap: %w", tensor.ErrEmptyBundle)
	}
	baselines, err := cfg.Baselines.Materialize(inputs)
	if err != nil {
		return nil, err
	}
	for i, in := range inputs {
		if b := baselines[i].Batch(); b != 1 && b != in.Batch() {
			return nil, fmt.Errorf("gradshap: baseline %d batch %d for input batch %d: %w",
				i, b, in.Batch(), tensor.ErrShapeMismatch)
		}
	}

	coeffs := tensor.UniformCoefficients(inputs[0].Batch(), a.cfg.src)
	scaled := make([]*tensor.Tensor, len(inputs))
	for i, in := range inputs {
		if scaled[i], err = in.ScaleRowsTowards(baselines[i], coeffs); err != nil {
			return nil, err
		}
	}

	grads, err := a.cfg.gradient(a.forward, scaled, cfg.Target, cfg.ExtraArgs)
	if err != nil {
		return nil, err
	}

	attributions := grads
	if a.cfg.multiplyByInputs {
		attributions = make([]*tensor.Tensor, len(inputs))
		for i, in := range inputs {
			diff, err := in.SubRows(baselines[i])
			if err != nil {
				return nil, err
			}
			if attributions[i], err = diff.Mul(grads[i]); err != nil {
				return nil, err
			}
		}
	}

	res := &core.Result{Attributions: attributions}
	if cfg.ReturnConvergenceDelta {
		if res.Delta, err = core.ConvergenceDelta(
			a.forward, attributions, inputs, baselines, cfg.ExtraArgs, cfg.Target,
		); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// AttributeFuture is the asynchronous attribution entry point. It is not
// implemented for InputBaselineGradient.
func (a *InputBaselineGradient) AttributeFuture([]*tensor.Tensor, core.Config) (*core.Result, error) {
	return nil, fmt.Errorf("gradshap: AttributeFuture: %w", core.ErrNotSupported)
}
