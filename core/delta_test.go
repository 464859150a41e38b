package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grale-ml/grale/core"
	"github.com/grale-ml/grale/tensor"
)

// sumForward is f(x) = Σ features, one scalar per example.
func sumForward(inputs []*tensor.Tensor, _ ...any) (*tensor.Tensor, error) {
	out := inputs[0].SumRows()
	for _, in := range inputs[1:] {
		if err := out.Add(in.SumRows()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// TestConvergenceDelta_ExactOnLinear verifies delta is exactly zero when
// the attributions satisfy completeness for f(x) = Σx: attr = x − b.
func TestConvergenceDelta_ExactOnLinear(t *testing.T) {
	x, err := tensor.FromSlice([]float64{1, 2, 3, 4}, 2, 2)
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float64{1, 1}, 1, 2)
	require.NoError(t, err)

	attr, err := x.SubRows(b)
	require.NoError(t, err)

	delta, err := core.ConvergenceDelta(sumForward,
		[]*tensor.Tensor{attr}, []*tensor.Tensor{x}, []*tensor.Tensor{b},
		nil, core.NoTarget())
	require.NoError(t, err)
	require.Equal(t, []int{2}, delta.Shape())
	assert.InDeltaSlice(t, []float64{0, 0}, delta.Data(), 1e-12)
}

// TestConvergenceDelta_MeasuresGap verifies delta reports the completeness
// gap when the attributions are off by a known amount.
func TestConvergenceDelta_MeasuresGap(t *testing.T) {
	x, err := tensor.FromSlice([]float64{1, 2}, 1, 2)
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float64{0, 0}, 1, 2)
	require.NoError(t, err)

	// True attribution mass is f(x)−f(b) = 3; claim 5 instead.
	attr, err := tensor.FromSlice([]float64{2, 3}, 1, 2)
	require.NoError(t, err)

	delta, err := core.ConvergenceDelta(sumForward,
		[]*tensor.Tensor{attr}, []*tensor.Tensor{x}, []*tensor.Tensor{b},
		nil, core.NoTarget())
	require.NoError(t, err)
	assert.InDelta(t, 2.0, delta.Data()[0], 1e-12, "5 claimed − 3 actual = 2")
}

// TestConvergenceDelta_Validation covers the argument discipline.
func TestConvergenceDelta_Validation(t *testing.T) {
	x, err := tensor.New(1, 2)
	require.NoError(t, err)

	_, err = core.ConvergenceDelta(nil, nil, nil, nil, nil, core.NoTarget())
	assert.ErrorIs(t, err, core.ErrNilForward)

	_, err = core.ConvergenceDelta(sumForward,
		nil, []*tensor.Tensor{x}, []*tensor.Tensor{x}, nil, core.NoTarget())
	assert.ErrorIs(t, err, core.ErrBadBaseline, "attribution count mismatch")
}

// TestConvergenceDelta_ForwardFailure verifies model errors propagate
// unchanged.
func TestConvergenceDelta_ForwardFailure(t *testing.T) {
	boom := errors.New("model exploded")
	failing := func([]*tensor.Tensor, ...any) (*tensor.Tensor, error) { return nil, boom }

	x, err := tensor.New(1, 2)
	require.NoError(t, err)
	_, err = core.ConvergenceDelta(failing,
		[]*tensor.Tensor{x}, []*tensor.Tensor{x}, []*tensor.Tensor{x},
		nil, core.NoTarget())
	assert.ErrorIs(t, err, boom)
}

// TestNumericGradients_Linear verifies ∂(w·x)/∂x = w.
func TestNumericGradients_Linear(t *testing.T) {
	w := []float64{2, -3, 0.5}
	forward := func(inputs []*tensor.Tensor, _ ...any) (*tensor.Tensor, error) {
		out, err := tensor.New(inputs[0].Batch())
		if err != nil {
			return nil, err
		}
		for e := 0; e < inputs[0].Batch(); e++ {
			row, err := inputs[0].Row(e)
			if err != nil {
				return nil, err
			}
			var dot float64
			for i, v := range row {
				dot += w[i] * v
			}
			if err = out.Set(dot, e); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	x, err := tensor.FromSlice([]float64{1, 2, 3, -1, 0, 4}, 2, 3)
	require.NoError(t, err)

	grads, err := core.NumericGradients(forward, []*tensor.Tensor{x}, core.NoTarget(), nil)
	require.NoError(t, err)
	require.Len(t, grads, 1)
	assert.InDeltaSlice(t, []float64{2, -3, 0.5, 2, -3, 0.5}, grads[0].Data(), 1e-6)
}

// TestNumericGradients_Quadratic verifies ∂(Σx²)/∂x = 2x.
func TestNumericGradients_Quadratic(t *testing.T) {
	forward := func(inputs []*tensor.Tensor, _ ...any) (*tensor.Tensor, error) {
		sq, err := inputs[0].Mul(inputs[0])
		if err != nil {
			return nil, err
		}
		return sq.SumRows(), nil
	}

	x, err := tensor.FromSlice([]float64{1, -2, 3, 0.5}, 2, 2)
	require.NoError(t, err)

	grads, err := core.NumericGradients(forward, []*tensor.Tensor{x}, core.NoTarget(), nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, -4, 6, 1}, grads[0].Data(), 1e-5)
}

// TestNumericGradients_MultiInputTarget verifies gradients flow to every
// bundle member and respect a fixed target column.
func TestNumericGradients_MultiInputTarget(t *testing.T) {
	// f(x, y) has two output columns: (Σx, 2·Σy).
	forward := func(inputs []*tensor.Tensor, _ ...any) (*tensor.Tensor, error) {
		b := inputs[0].Batch()
		out, err := tensor.New(b, 2)
		if err != nil {
			return nil, err
		}
		sx, sy := inputs[0].SumRows(), inputs[1].SumRows()
		for e := 0; e < b; e++ {
			vx, _ := sx.At(e)
			vy, _ := sy.At(e)
			if err = out.Set(vx, e, 0); err != nil {
				return nil, err
			}
			if err = out.Set(2*vy, e, 1); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	x, err := tensor.FromSlice([]float64{1, 2}, 1, 2)
	require.NoError(t, err)
	y, err := tensor.FromSlice([]float64{3, 4}, 1, 2)
	require.NoError(t, err)

	grads, err := core.NumericGradients(forward, []*tensor.Tensor{x, y}, core.FixedTarget(1), nil)
	require.NoError(t, err)
	require.Len(t, grads, 2)
	assert.InDeltaSlice(t, []float64{0, 0}, grads[0].Data(), 1e-6, "column 1 ignores x")
	assert.InDeltaSlice(t, []float64{2, 2}, grads[1].Data(), 1e-6, "∂(2Σy)/∂y = 2")
}

// TestNumericGradients_ForwardFailure verifies engine-level propagation.
func TestNumericGradients_ForwardFailure(t *testing.T) {
	boom := errors.New("forward failed")
	failing := func([]*tensor.Tensor, ...any) (*tensor.Tensor, error) { return nil, boom }

	x, err := tensor.New(1, 1)
	require.NoError(t, err)
	_, err = core.NumericGradients(failing, []*tensor.Tensor{x}, core.NoTarget(), nil)
	assert.ErrorIs(t, err, boom)
}
