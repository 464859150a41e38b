// Package tensor: structural and elementwise operations used by the
// sampling-and-aggregation core. Elementwise kernels delegate to
// gonum/floats; structural ops keep fixed loop orders for determinism.
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// withBatch returns a copy of t's shape with the example axis replaced by b.
func (t *Tensor) withBatch(b int) []int {
	shape := append([]int(nil), t.shape...)
	shape[0] = b
	return shape
}

// RepeatInterleave replicates every example k times along the example axis.
// Ordering is example-major, replica-minor: example e of the result occupies
// rows e*k … e*k+k-1, all identical copies of input row e.
// Complexity: O(k·len(data)).
func (t *Tensor) RepeatInterleave(k int) (*Tensor, error) {
	if k < 1 {
		return nil, fmt.Errorf("RepeatInterleave(%d): %w", k, ErrBadShape)
	}
	w := t.RowLen()
	out := &Tensor{shape: t.withBatch(t.shape[0] * k), data: make([]float64, len(t.data)*k)}
	for e := 0; e < t.shape[0]; e++ {
		src := t.data[e*w : (e+1)*w]
		for r := 0; r < k; r++ {
			copy(out.data[(e*k+r)*w:(e*k+r+1)*w], src)
		}
	}
	return out, nil
}

// Tile repeats the whole tensor k times along the example axis:
// the result's rows are t's rows, k times over, in order.
// Complexity: O(k·len(data)).
func (t *Tensor) Tile(k int) (*Tensor, error) {
	if k < 1 {
		return nil, fmt.Errorf("Tile(%d): %w", k, ErrBadShape)
	}
	out := &Tensor{shape: t.withBatch(t.shape[0] * k), data: make([]float64, len(t.data)*k)}
	for r := 0; r < k; r++ {
		copy(out.data[r*len(t.data):(r+1)*len(t.data)], t.data)
	}
	return out, nil
}

// GatherRows builds a new tensor whose example r is t's example idx[r].
// Indices may repeat; this is how baseline draws sample a pool with
// replacement. Complexity: O(len(idx)·RowLen).
func (t *Tensor) GatherRows(idx []int) (*Tensor, error) {
	if len(idx) == 0 {
		return nil, fmt.Errorf("GatherRows: %w", ErrBadShape)
	}
	w := t.RowLen()
	out := &Tensor{shape: t.withBatch(len(idx)), data: make([]float64, len(idx)*w)}
	for r, i := range idx {
		if i < 0 || i >= t.shape[0] {
			return nil, fmt.Errorf("GatherRows: row %d (batch %d): %w", i, t.shape[0], ErrOutOfRange)
		}
		copy(out.data[r*w:(r+1)*w], t.data[i*w:(i+1)*w])
	}
	return out, nil
}

// Concat concatenates tensors along the example axis, in argument order.
// All operands must agree on every non-example axis.
func Concat(ts ...*Tensor) (*Tensor, error) {
	if len(ts) == 0 {
		return nil, fmt.Errorf("Concat: %w", ErrEmptyBundle)
	}
	batch := 0
	for _, o := range ts {
		if !ts[0].SameShapeFromAxis1(o) {
			return nil, fmt.Errorf("Concat: %v vs %v: %w", ts[0].shape, o.shape, ErrShapeMismatch)
		}
		batch += o.shape[0]
	}
	out := &Tensor{shape: ts[0].withBatch(batch), data: make([]float64, 0, batch*ts[0].RowLen())}
	for _, o := range ts {
		out.data = append(out.data, o.data...)
	}
	return out, nil
}

// Add accumulates o into t elementwise, in place.
func (t *Tensor) Add(o *Tensor) error {
	if !t.SameShape(o) {
		return fmt.Errorf("Add: %v vs %v: %w", t.shape, o.shape, ErrShapeMismatch)
	}
	floats.Add(t.data, o.data)
	return nil
}

// Scale multiplies every element of t by c, in place.
func (t *Tensor) Scale(c float64) {
	floats.Scale(c, t.data)
}

// Sub returns t − o elementwise as a new tensor.
func (t *Tensor) Sub(o *Tensor) (*Tensor, error) {
	if !t.SameShape(o) {
		return nil, fmt.Errorf("Sub: %v vs %v: %w", t.shape, o.shape, ErrShapeMismatch)
	}
	out := t.Clone()
	floats.Sub(out.data, o.data)
	return out, nil
}

// Mul returns t ⊙ o elementwise as a new tensor.
func (t *Tensor) Mul(o *Tensor) (*Tensor, error) {
	if !t.SameShape(o) {
		return nil, fmt.Errorf("Mul: %v vs %v: %w", t.shape, o.shape, ErrShapeMismatch)
	}
	out := t.Clone()
	floats.Mul(out.data, o.data)
	return out, nil
}

// SubRows returns t − base with base broadcast along the example axis:
// base must have the same feature shape as t and batch size 1 or t.Batch().
func (t *Tensor) SubRows(base *Tensor) (*Tensor, error) {
	if err := t.checkRowOperand(base, "SubRows"); err != nil {
		return nil, err
	}
	out := t.Clone()
	w := t.RowLen()
	for e := 0; e < t.shape[0]; e++ {
		b := base.data[:w]
		if base.shape[0] > 1 {
			b = base.data[e*w : (e+1)*w]
		}
		floats.Sub(out.data[e*w:(e+1)*w], b)
	}
	return out, nil
}

// ScaleRowsTowards returns the per-example convex combination
//
//	out_e = coeffs[e]·t_e + (1−coeffs[e])·base_e
//
// with base broadcast along the example axis (batch 1 or t.Batch()).
// One coefficient per example, shared across all feature positions.
func (t *Tensor) ScaleRowsTowards(base *Tensor, coeffs []float64) (*Tensor, error) {
	if err := t.checkRowOperand(base, "ScaleRowsTowards"); err != nil {
		return nil, err
	}
	if len(coeffs) != t.shape[0] {
		return nil, fmt.Errorf("ScaleRowsTowards: %d coeffs for batch %d: %w", len(coeffs), t.shape[0], ErrShapeMismatch)
	}
	out := t.Clone()
	w := t.RowLen()
	for e := 0; e < t.shape[0]; e++ {
		b := base.data[:w]
		if base.shape[0] > 1 {
			b = base.data[e*w : (e+1)*w]
		}
		row := out.data[e*w : (e+1)*w]
		c := coeffs[e]
		floats.Scale(c, row)
		floats.AddScaled(row, 1-c, b)
	}
	return out, nil
}

// checkRowOperand validates a batch-broadcastable operand.
func (t *Tensor) checkRowOperand(base *Tensor, op string) error {
	if !t.SameShapeFromAxis1(base) || (base.shape[0] != 1 && base.shape[0] != t.shape[0]) {
		return fmt.Errorf("%s: %v vs %v: %w", op, t.shape, base.shape, ErrShapeMismatch)
	}
	return nil
}

// SumReplicas collapses the example axis from B·k back to B by summing each
// group of k consecutive replica rows. t must have been produced by a
// RepeatInterleave(k)-shaped expansion, so t.Batch() must divide evenly by k.
// Complexity: O(len(data)).
func (t *Tensor) SumReplicas(k int) (*Tensor, error) {
	return t.reduceReplicas(k, false)
}

// SumSquaredReplicas is SumReplicas over the elementwise squares of t.
// Together with SumReplicas it feeds the running sum / sum-of-squares
// accumulators of the aggregation core.
func (t *Tensor) SumSquaredReplicas(k int) (*Tensor, error) {
	return t.reduceReplicas(k, true)
}

func (t *Tensor) reduceReplicas(k int, squared bool) (*Tensor, error) {
	if k < 1 || t.shape[0]%k != 0 {
		return nil, fmt.Errorf("replica reduction by %d on batch %d: %w", k, t.shape[0], ErrBadShape)
	}
	b := t.shape[0] / k
	w := t.RowLen()
	out := &Tensor{shape: t.withBatch(b), data: make([]float64, b*w)}
	for e := 0; e < b; e++ {
		dst := out.data[e*w : (e+1)*w]
		for r := 0; r < k; r++ {
			src := t.data[(e*k+r)*w : (e*k+r+1)*w]
			if squared {
				for i, v := range src {
					dst[i] += v * v
				}
			} else {
				floats.Add(dst, src)
			}
		}
	}
	return out, nil
}

// SumRows reduces every example to a single scalar: the sum of all its
// elements. The result has shape (Batch).
func (t *Tensor) SumRows() *Tensor {
	w := t.RowLen()
	out := &Tensor{shape: []int{t.shape[0]}, data: make([]float64, t.shape[0])}
	for e := 0; e < t.shape[0]; e++ {
		out.data[e] = floats.Sum(t.data[e*w : (e+1)*w])
	}
	return out
}
