// Package core: model-boundary types — forward function, gradient engine
// and output target selection.
package core

import (
	"fmt"

	"github.com/grale-ml/grale/tensor"
)

// ForwardFunc evaluates the model on a bundle of input tensors whose
// example axes are aligned, returning one output row per example: either a
// rank-1 tensor of shape (B) for scalar-output models, or a rank-2 tensor
// of shape (B, C) whose columns are selected via Target.
//
// extraArgs are forwarded verbatim and never differentiated through.
type ForwardFunc func(inputs []*tensor.Tensor, extraArgs ...any) (*tensor.Tensor, error)

// GradientFunc is the opaque gradient engine: given a forward function and
// the points to differentiate at, it returns ∂(selected output)/∂point for
// every tensor in points, with the same structural shape as points.
//
// Implementations may be analytic, autodiff-backed, or numeric; the
// attribution algorithms treat the engine as a black box and propagate its
// failures unchanged. NumericGradients is the built-in default.
type GradientFunc func(f ForwardFunc, points []*tensor.Tensor, target Target, extraArgs []any) ([]*tensor.Tensor, error)

// targetKind discriminates the Target variants.
type targetKind uint8

const (
	targetNone       targetKind = iota // scalar model output, nothing to select
	targetFixed                        // one column for every example
	targetPerExample                   // one column per example
)

// Target selects which output column gradients and deltas are computed
// against. The zero value selects nothing and is valid for scalar-output
// models (or single-column outputs, which are squeezed).
type Target struct {
	kind    targetKind
	index   int
	indices []int
}

// NoTarget returns the empty selector for scalar-output models.
func NoTarget() Target { return Target{} }

// FixedTarget selects column i of the model output for every example.
func FixedTarget(i int) Target { return Target{kind: targetFixed, index: i} }

// PerExampleTarget selects column indices[e] for example e. The slice is
// copied; its length must equal the batch size at selection time.
func PerExampleTarget(indices ...int) Target {
	return Target{kind: targetPerExample, indices: append([]int(nil), indices...)}
}

// IsNone reports whether the selector is empty.
func (t Target) IsNone() bool { return t.kind == targetNone }

// Expand matches the selector to a k-fold replica-expanded batch:
// per-example indices are repeated example-major, replica-minor; empty and
// fixed selectors are replication-invariant. Expand never mutates t.
func (t Target) Expand(k int) Target {
	if t.kind != targetPerExample || k == 1 {
		return t
	}
	expanded := make([]int, 0, len(t.indices)*k)
	for _, i := range t.indices {
		for r := 0; r < k; r++ {
			expanded = append(expanded, i)
		}
	}
	return Target{kind: targetPerExample, indices: expanded}
}

// Select reduces a model output to one scalar per example according to the
// selector. out must be rank 1, or rank 2 with the selected column in
// range; a single-column rank-2 output is squeezed under NoTarget.
func (t Target) Select(out *tensor.Tensor) (*tensor.Tensor, error) {
	b := out.Batch()
	switch {
	case out.Rank() == 1:
		if t.kind != targetNone {
			return nil, fmt.Errorf("Select: target on rank-1 output: %w", ErrBadTarget)
		}
		return out.Clone(), nil
	case out.Rank() != 2:
		return nil, fmt.Errorf("Select: output rank %d: %w", out.Rank(), ErrBadTarget)
	}

	cols := out.RowLen()
	column := func(e int) (int, error) {
		switch t.kind {
		case targetNone:
			if cols != 1 {
				return 0, fmt.Errorf("Select: no target for %d output columns: %w", cols, ErrBadTarget)
			}
			return 0, nil
		case targetFixed:
			return t.index, nil
		default:
			if len(t.indices) != b {
				return 0, fmt.Errorf("Select: %d targets for batch %d: %w", len(t.indices), b, ErrBadTarget)
			}
			return t.indices[e], nil
		}
	}

	selected, err := tensor.New(b)
	if err != nil {
		return nil, err
	}
	for e := 0; e < b; e++ {
		c, err := column(e)
		if err != nil {
			return nil, err
		}
		v, err := out.At(e, c)
		if err != nil {
			return nil, fmt.Errorf("Select: column %d: %w", c, ErrBadTarget)
		}
		if err = selected.Set(v, e); err != nil {
			return nil, err
		}
	}
	return selected, nil
}
