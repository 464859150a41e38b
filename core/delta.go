// Package core: the convergence-delta diagnostic shared by completeness-
// style attribution methods.
package core

import (
	"fmt"

	"github.com/grale-ml/grale/tensor"
)

// ConvergenceDelta measures, per example, how far the attributions are from
// satisfying the completeness property:
//
//	delta_e = Σ attributions_e − (f(inputs)_e − f(baselines)_e)
//
// where the sum runs over every element of every attribution tensor for
// example e and f is reduced to one scalar per example via target.
//
// baselines must be one tensor per input, each with batch size 1 (tiled to
// the input batch before evaluation) or the input batch size. The returned
// tensor has shape (B).
//
// Forward failures propagate unchanged; there is no local recovery for a
// failed model evaluation.
func ConvergenceDelta(
	f ForwardFunc,
	attributions, inputs, baselines []*tensor.Tensor,
	extraArgs []any,
	target Target,
) (*tensor.Tensor, error) {
	if f == nil {
		return nil, ErrNilForward
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("core: ConvergenceDelta: %w", tensor.ErrEmptyBundle)
	}
	if len(attributions) != len(inputs) || len(baselines) != len(inputs) {
		return nil, fmt.Errorf("core: ConvergenceDelta: %d attributions, %d baselines for %d inputs: %w",
			len(attributions), len(baselines), len(inputs), ErrBadBaseline)
	}
	b := inputs[0].Batch()

	// Total attribution mass per example, across the whole bundle.
	attrSum, err := tensor.New(b)
	if err != nil {
		return nil, err
	}
	for _, a := range attributions {
		if err = attrSum.Add(a.SumRows()); err != nil {
			return nil, err
		}
	}

	fx, err := forwardSelected(f, inputs, extraArgs, target)
	if err != nil {
		return nil, err
	}

	// Baselines with batch 1 broadcast: tile them to the input batch so the
	// forward evaluation and the target selection stay example-aligned.
	fullBaselines := baselines
	if baselines[0].Batch() == 1 && b != 1 {
		fullBaselines = make([]*tensor.Tensor, len(baselines))
		for i, base := range baselines {
			if fullBaselines[i], err = base.Tile(b); err != nil {
				return nil, err
			}
		}
	}
	fb, err := forwardSelected(f, fullBaselines, extraArgs, target)
	if err != nil {
		return nil, err
	}

	delta, err := tensor.New(b)
	if err != nil {
		return nil, err
	}
	for e := 0; e < b; e++ {
		sum, _ := attrSum.At(e)
		x, _ := fx.At(e)
		y, err := fb.At(e)
		if err != nil {
			return nil, err
		}
		if err = delta.Set(sum-(x-y), e); err != nil {
			return nil, err
		}
	}
	return delta, nil
}

// forwardSelected runs the model and reduces its output to one scalar per
// example under the given target.
func forwardSelected(f ForwardFunc, inputs []*tensor.Tensor, extraArgs []any, target Target) (*tensor.Tensor, error) {
	out, err := f(inputs, extraArgs...)
	if err != nil {
		return nil, err
	}
	return target.Select(out)
}
