// Package core: baseline forms and their resolution.
package core

import (
	"fmt"

	"github.com/grale-ml/grale/tensor"
)

// BaselineFunc generates a baseline bundle at attribution time, optionally
// inspecting the inputs it will be measured against.
type BaselineFunc func(inputs []*tensor.Tensor) ([]*tensor.Tensor, error)

// Baselines is the reference against which attribution is measured, in one
// of three forms:
//
//   - a tensor bundle structurally matching the inputs, whose example axis
//     is a sample pool (its size need not equal the input batch size);
//   - one scalar constant per input tensor;
//   - a generator function producing a tensor bundle on demand.
//
// The zero value means "all-zero baselines", the conventional default.
type Baselines struct {
	tensors []*tensor.Tensor
	scalars []float64
	fn      BaselineFunc
}

// TensorBaselines wraps a concrete baseline bundle. The slice is copied.
func TensorBaselines(ts ...*tensor.Tensor) Baselines {
	return Baselines{tensors: append([]*tensor.Tensor(nil), ts...)}
}

// ScalarBaselines assigns one constant baseline value per input tensor.
func ScalarBaselines(vs ...float64) Baselines {
	return Baselines{scalars: append([]float64(nil), vs...)}
}

// FuncBaselines defers baseline construction to fn.
func FuncBaselines(fn BaselineFunc) Baselines { return Baselines{fn: fn} }

// IsTensorBundle reports whether the baselines are (already) a concrete
// tensor bundle — the only form usable as a sampling distribution.
func (b Baselines) IsTensorBundle() bool { return len(b.tensors) > 0 }

// Tensors returns the concrete bundle, or nil if the baselines are not in
// tensor form.
func (b Baselines) Tensors() []*tensor.Tensor { return b.tensors }

// Resolve invokes a generator-form baseline against inputs and returns the
// resulting concrete Baselines; tensor- and scalar-form baselines are
// returned unchanged. Resolve never mutates b.
func (b Baselines) Resolve(inputs []*tensor.Tensor) (Baselines, error) {
	if b.fn == nil {
		return b, nil
	}
	ts, err := b.fn(inputs)
	if err != nil {
		return Baselines{}, fmt.Errorf("core: baseline generator: %w", err)
	}
	if len(ts) == 0 {
		return Baselines{}, fmt.Errorf("core: baseline generator returned no tensors: %w", ErrBadBaseline)
	}
	return TensorBaselines(ts...), nil
}

// Materialize produces one concrete baseline tensor per input tensor:
//
//   - tensor form: the bundle verbatim (count must match inputs);
//   - scalar form: each constant broadcast to a single-example tensor of
//     the corresponding input's feature shape;
//   - zero value: all-zero single-example tensors;
//   - generator form: resolved first, then as tensor form.
//
// Single-example results broadcast along the example axis downstream.
func (b Baselines) Materialize(inputs []*tensor.Tensor) ([]*tensor.Tensor, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("core: Materialize: %w", tensor.ErrEmptyBundle)
	}
	resolved, err := b.Resolve(inputs)
	if err != nil {
		return nil, err
	}

	if resolved.IsTensorBundle() {
		if len(resolved.tensors) != len(inputs) {
			return nil, fmt.Errorf("core: %d baseline tensors for %d inputs: %w",
				len(resolved.tensors), len(inputs), ErrBadBaseline)
		}
		for i, in := range inputs {
			if !in.SameShapeFromAxis1(resolved.tensors[i]) {
				return nil, fmt.Errorf("core: baseline %d: %v vs %v: %w",
					i, in.Shape(), resolved.tensors[i].Shape(), tensor.ErrShapeMismatch)
			}
		}
		return resolved.tensors, nil
	}

	scalars := resolved.scalars
	if scalars == nil {
		scalars = make([]float64, len(inputs)) // zero-value baselines
	}
	if len(scalars) != len(inputs) {
		return nil, fmt.Errorf("core: %d baseline scalars for %d inputs: %w",
			len(scalars), len(inputs), ErrBadBaseline)
	}
	out := make([]*tensor.Tensor, len(inputs))
	for i, in := range inputs {
		shape := in.Shape()
		shape[0] = 1
		t, err := tensor.Full(scalars[i], shape...)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
