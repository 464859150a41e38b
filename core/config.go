// Package core: the passthrough configuration handed to wrapped attribution
// methods, and its pure per-sub-batch expansion.
package core

import (
	"fmt"
	"math/rand/v2"

	"github.com/grale-ml/grale/tensor"
)

// Config carries the arguments a wrapping algorithm forwards to the method
// it wraps. The zero value is valid: no baselines (zeros), no target, no
// extra arguments, no feature mask, no delta.
type Config struct {
	// Baselines is the reference for methods that measure against one.
	Baselines Baselines

	// Target selects the model output column under attribution.
	Target Target

	// ExtraArgs are forwarded to the model untouched and never
	// differentiated through. Tensor-valued entries whose example axis
	// matches the batch are replica-expanded alongside the inputs.
	ExtraArgs []any

	// FeatureMask groups features for perturbation-based methods; ignored
	// by gradient-based ones.
	FeatureMask []*tensor.Tensor

	// ReturnConvergenceDelta asks the method for the per-example
	// convergence diagnostic. Methods without delta support ignore it.
	ReturnConvergenceDelta bool
}

// Expand returns a fresh Config matched to a batch expanded k-fold along
// the example axis (example-major, replica-minor). The receiver is never
// mutated, so expanding the same original Config for several sub-batches
// can never double-expand.
//
// Expansion rules, per field:
//
//   - Target: per-example indices are repeated replica-minor.
//   - Baselines, drawFromDistrib=false: a tensor bundle whose batch equals
//     the input batch is replica-expanded; a single-example or pool-sized
//     bundle, scalars and the zero value pass through (they broadcast).
//   - Baselines, drawFromDistrib=true: the bundle is a sample pool; one
//     pool row is drawn uniformly (with replacement) per replica, the same
//     row index across all tensors of the bundle, yielding baselines with
//     batch B·k.
//   - ExtraArgs: *tensor.Tensor entries with batch B are replica-expanded;
//     everything else passes through untouched.
//   - FeatureMask: masks with batch B are replica-expanded; single-example
//     masks pass through.
//
// inputs is the ORIGINAL (unexpanded) input bundle; it supplies the batch
// size B and the drawn-baseline alignment.
func (c Config) Expand(k int, inputs []*tensor.Tensor, drawFromDistrib bool, src rand.Source) (Config, error) {
	if k < 1 {
		return Config{}, fmt.Errorf("core: Expand(%d): %w", k, tensor.ErrBadShape)
	}
	if len(inputs) == 0 {
		return Config{}, fmt.Errorf("core: Expand: %w", tensor.ErrEmptyBundle)
	}
	b := inputs[0].Batch()

	out := Config{
		Target:                 c.Target.Expand(k),
		ReturnConvergenceDelta: c.ReturnConvergenceDelta,
	}

	var err error
	if out.Baselines, err = c.expandBaselines(k, b, drawFromDistrib, src); err != nil {
		return Config{}, err
	}
	if out.ExtraArgs, err = expandExtraArgs(c.ExtraArgs, k, b); err != nil {
		return Config{}, err
	}
	if out.FeatureMask, err = expandMasks(c.FeatureMask, k, b); err != nil {
		return Config{}, err
	}
	return out, nil
}

func (c Config) expandBaselines(k, b int, drawFromDistrib bool, src rand.Source) (Baselines, error) {
	if !c.Baselines.IsTensorBundle() {
		if drawFromDistrib {
			return Baselines{}, fmt.Errorf("core: baseline distribution must be a tensor bundle: %w", ErrBadBaseline)
		}
		return c.Baselines, nil // scalars / zero / generator broadcast as-is
	}

	pool := c.Baselines.Tensors()
	expanded := make([]*tensor.Tensor, len(pool))

	if drawFromDistrib {
		// One draw per replica, shared across the bundle so the drawn
		// reference examples stay aligned between input tensors.
		idx := tensor.DrawIndices(pool[0].Batch(), b*k, src)
		for i, p := range pool {
			if p.Batch() != pool[0].Batch() {
				return Baselines{}, fmt.Errorf("core: baseline pool sizes %d vs %d: %w",
					pool[0].Batch(), p.Batch(), ErrBadBaseline)
			}
			g, err := p.GatherRows(idx)
			if err != nil {
				return Baselines{}, err
			}
			expanded[i] = g
		}
		return TensorBaselines(expanded...), nil
	}

	for i, p := range pool {
		if p.Batch() != b {
			expanded[i] = p // single-example or pool-sized: broadcasts downstream
			continue
		}
		r, err := p.RepeatInterleave(k)
		if err != nil {
			return Baselines{}, err
		}
		expanded[i] = r
	}
	return TensorBaselines(expanded...), nil
}

func expandExtraArgs(args []any, k, b int) ([]any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make([]any, len(args))
	for i, a := range args {
		t, ok := a.(*tensor.Tensor)
		if !ok || t.Batch() != b {
			out[i] = a
			continue
		}
		r, err := t.RepeatInterleave(k)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func expandMasks(masks []*tensor.Tensor, k, b int) ([]*tensor.Tensor, error) {
	if len(masks) == 0 {
		return nil, nil
	}
	out := make([]*tensor.Tensor, len(masks))
	for i, m := range masks {
		if m.Batch() != b {
			out[i] = m
			continue
		}
		r, err := m.RepeatInterleave(k)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
