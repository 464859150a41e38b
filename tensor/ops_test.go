package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grale-ml/grale/tensor"
)

// TestRepeatInterleave_Ordering verifies the example-major, replica-minor
// layout: example e occupies rows e*k … e*k+k-1 of the result.
func TestRepeatInterleave_Ordering(t *testing.T) {
	x, err := tensor.FromSlice([]float64{1, 2, 10, 20}, 2, 2)
	require.NoError(t, err)

	r, err := x.RepeatInterleave(3)
	require.NoError(t, err)

	assert.Equal(t, []int{6, 2}, r.Shape())
	assert.Equal(t, []float64{
		1, 2, 1, 2, 1, 2, // example 0, replicas 0..2
		10, 20, 10, 20, 10, 20, // example 1, replicas 0..2
	}, r.Data())

	_, err = x.RepeatInterleave(0)
	assert.ErrorIs(t, err, tensor.ErrBadShape)
}

// TestTile_Ordering verifies whole-tensor repetition along the example axis.
func TestTile_Ordering(t *testing.T) {
	x, err := tensor.FromSlice([]float64{1, 2, 10, 20}, 2, 2)
	require.NoError(t, err)

	r, err := x.Tile(2)
	require.NoError(t, err)

	assert.Equal(t, []int{4, 2}, r.Shape())
	assert.Equal(t, []float64{1, 2, 10, 20, 1, 2, 10, 20}, r.Data())
}

// TestGatherRows draws pool rows with repetition and checks bounds.
func TestGatherRows(t *testing.T) {
	pool, err := tensor.FromSlice([]float64{0, 0, 1, 1, 2, 2}, 3, 2)
	require.NoError(t, err)

	g, err := pool.GatherRows([]int{2, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 0, 0, 2, 2}, g.Data())

	_, err = pool.GatherRows([]int{3})
	assert.ErrorIs(t, err, tensor.ErrOutOfRange)

	_, err = pool.GatherRows(nil)
	assert.ErrorIs(t, err, tensor.ErrBadShape)
}

// TestConcat verifies order preservation and shape discipline.
func TestConcat(t *testing.T) {
	a, err := tensor.FromSlice([]float64{1, 2}, 1, 2)
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float64{3, 4, 5, 6}, 2, 2)
	require.NoError(t, err)

	c, err := tensor.Concat(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, c.Shape())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, c.Data())

	_, err = tensor.Concat()
	assert.ErrorIs(t, err, tensor.ErrEmptyBundle)

	bad, err := tensor.New(2, 3)
	require.NoError(t, err)
	_, err = tensor.Concat(a, bad)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

// TestElementwise covers Add/Sub/Mul/Scale semantics and shape checks.
func TestElementwise(t *testing.T) {
	a, err := tensor.FromSlice([]float64{1, 2, 3, 4}, 2, 2)
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float64{10, 20, 30, 40}, 2, 2)
	require.NoError(t, err)

	sum := a.Clone()
	require.NoError(t, sum.Add(b))
	assert.Equal(t, []float64{11, 22, 33, 44}, sum.Data(), "Add accumulates in place")
	assert.Equal(t, []float64{1, 2, 3, 4}, a.Data(), "Add must not mutate the clone source")

	diff, err := b.Sub(a)
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 18, 27, 36}, diff.Data())
	assert.Equal(t, []float64{10, 20, 30, 40}, b.Data(), "Sub returns a new tensor")

	prod, err := a.Mul(a)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4, 9, 16}, prod.Data())

	scaled := a.Clone()
	scaled.Scale(0.5)
	assert.Equal(t, []float64{0.5, 1, 1.5, 2}, scaled.Data())

	mismatched, err := tensor.New(1, 2)
	require.NoError(t, err)
	assert.ErrorIs(t, sum.Add(mismatched), tensor.ErrShapeMismatch)
	_, err = a.Mul(mismatched)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

// TestSubRows_Broadcast verifies single-example baselines broadcast along
// the example axis while full-batch baselines subtract row-wise.
func TestSubRows_Broadcast(t *testing.T) {
	x, err := tensor.FromSlice([]float64{1, 2, 10, 20}, 2, 2)
	require.NoError(t, err)

	single, err := tensor.FromSlice([]float64{1, 1}, 1, 2)
	require.NoError(t, err)
	d, err := x.SubRows(single)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 9, 19}, d.Data())

	full, err := tensor.FromSlice([]float64{1, 2, 10, 20}, 2, 2)
	require.NoError(t, err)
	d, err = x.SubRows(full)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, d.Data())

	bad, err := tensor.New(3, 2)
	require.NoError(t, err)
	_, err = x.SubRows(bad)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch, "batch 3 is neither 1 nor 2")
}

// TestScaleRowsTowards verifies the per-example convex combination
// c·x + (1−c)·b with one coefficient per example.
func TestScaleRowsTowards(t *testing.T) {
	x, err := tensor.FromSlice([]float64{2, 4, 10, 20}, 2, 2)
	require.NoError(t, err)
	base, err := tensor.FromSlice([]float64{0, 0}, 1, 2)
	require.NoError(t, err)

	// c=1 keeps the input, c=0 lands on the baseline.
	s, err := x.ScaleRowsTowards(base, []float64{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 0, 0}, s.Data())
	assert.Equal(t, []float64{2, 4, 10, 20}, x.Data(), "input is immutable")

	// c=0.5 is the midpoint.
	s, err = x.ScaleRowsTowards(base, []float64{0.5, 0.5})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2, 5, 10}, s.Data(), 1e-12)

	_, err = x.ScaleRowsTowards(base, []float64{0.5})
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch, "coefficient per example is required")
}

// TestSumReplicas verifies the replica-block reduction that feeds the
// running aggregate: batch B·k collapses to B by summing k-row groups.
func TestSumReplicas(t *testing.T) {
	// B=2, k=3: example 0 replicas are rows 0..2, example 1 rows 3..5.
	attr, err := tensor.FromSlice([]float64{
		1, 2,
		3, 4,
		5, 6,
		10, 10,
		20, 20,
		30, 30,
	}, 6, 2)
	require.NoError(t, err)

	s, err := attr.SumReplicas(3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, s.Shape())
	assert.Equal(t, []float64{9, 12, 60, 60}, s.Data())

	sq, err := attr.SumSquaredReplicas(3)
	require.NoError(t, err)
	assert.Equal(t, []float64{35, 56, 1400, 1400}, sq.Data())

	_, err = attr.SumReplicas(4)
	assert.ErrorIs(t, err, tensor.ErrBadShape, "6 rows do not split into groups of 4")
}

// TestSumRows verifies the per-example scalar reduction used by the
// convergence diagnostic.
func TestSumRows(t *testing.T) {
	x, err := tensor.FromSlice([]float64{1, 2, 3, 10, 20, 30}, 2, 3)
	require.NoError(t, err)

	s := x.SumRows()
	assert.Equal(t, []int{2}, s.Shape())
	assert.Equal(t, []float64{6, 60}, s.Data())
}
