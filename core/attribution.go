// Package core: the Attributor contract and its capability descriptor.
package core

import "github.com/grale-ml/grale/tensor"

// Capabilities describes, at construction time, what an attribution method
// can do. The noise tunnel queries these flags directly instead of
// inspecting the concrete type.
type Capabilities struct {
	// HasConvergenceDelta reports whether the method can produce the
	// per-example convergence diagnostic when asked to.
	HasConvergenceDelta bool

	// IsGradientBased reports whether the method differentiates the model,
	// as opposed to perturbing it. Perturbation-based methods may consume a
	// feature mask; gradient-based ones never do.
	IsGradientBased bool

	// MultipliesByInputs reports whether final scores are scaled by
	// (input − baseline), i.e. "global" rather than "local" attribution.
	MultipliesByInputs bool
}

// Attributor is any attribution method the noise tunnel can wrap.
//
// Attribute computes one attribution per input tensor for the given batch.
// Implementations must treat inputs as immutable and must be safe to call
// repeatedly; they need not be safe for concurrent use unless documented.
type Attributor interface {
	Attribute(inputs []*tensor.Tensor, cfg Config) (*Result, error)
	Capabilities() Capabilities
}

// Result is the single return type of every attribute call.
// Attributions always mirrors the structure (count and shapes) of the
// inputs the call received. Delta is nil unless the caller requested the
// convergence diagnostic and the method supports it; when present it holds
// one scalar per example (per trial, for sampled methods, concatenated in
// trial order).
type Result struct {
	Attributions []*tensor.Tensor
	Delta        *tensor.Tensor
}

// One returns the sole attribution tensor, restoring the single-tensor
// calling convention for models with one input. It panics if the result
// holds more than one attribution; that is a programmer error.
func (r *Result) One() *tensor.Tensor {
	if len(r.Attributions) != 1 {
		panic("core: Result.One called on a multi-input result")
	}
	return r.Attributions[0]
}
