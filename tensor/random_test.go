package tensor_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grale-ml/grale/tensor"
)

func seeded(seed uint64) rand.Source { return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15) }

// TestAddGaussianNoise_ZeroStdev verifies the draw-free identity path.
func TestAddGaussianNoise_ZeroStdev(t *testing.T) {
	x, err := tensor.FromSlice([]float64{1, 2, 3, 4}, 2, 2)
	require.NoError(t, err)

	y, err := x.AddGaussianNoise(0, seeded(1))
	require.NoError(t, err)
	assert.Equal(t, x.Data(), y.Data(), "zero stdev must be an exact copy")

	require.NoError(t, y.Set(99, 0, 0))
	v, err := x.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v, "the copy must not alias the input")
}

// TestAddGaussianNoise_NegativeStdev verifies validation.
func TestAddGaussianNoise_NegativeStdev(t *testing.T) {
	x, err := tensor.New(1, 2)
	require.NoError(t, err)

	_, err = x.AddGaussianNoise(-0.1, nil)
	assert.ErrorIs(t, err, tensor.ErrBadStdev)
}

// TestAddGaussianNoise_Moments checks the empirical mean and stdev of the
// added noise against the configured parameters.
func TestAddGaussianNoise_Moments(t *testing.T) {
	const n = 20000
	const stdev = 0.5
	x, err := tensor.New(n, 1)
	require.NoError(t, err)

	y, err := x.AddGaussianNoise(stdev, seeded(7))
	require.NoError(t, err)

	var sum, sumSq float64
	for _, v := range y.Data() {
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	sd := math.Sqrt(sumSq/n - mean*mean)
	assert.InDelta(t, 0.0, mean, 0.02, "noise mean should be ~0")
	assert.InDelta(t, stdev, sd, 0.02, "noise stdev should match the parameter")
}

// TestAddGaussianNoise_Deterministic verifies that a fixed source fixes the
// draws.
func TestAddGaussianNoise_Deterministic(t *testing.T) {
	x, err := tensor.New(3, 4)
	require.NoError(t, err)

	a, err := x.AddGaussianNoise(1.0, seeded(42))
	require.NoError(t, err)
	b, err := x.AddGaussianNoise(1.0, seeded(42))
	require.NoError(t, err)
	assert.Equal(t, a.Data(), b.Data(), "same seed, same noise")
}

// TestAddGaussianNoise_NilSource verifies the process-wide fallback feeds
// the distribution: noise must actually be drawn, not silently zeroed.
func TestAddGaussianNoise_NilSource(t *testing.T) {
	x, err := tensor.New(1, 16)
	require.NoError(t, err)

	y, err := x.AddGaussianNoise(1.0, nil)
	require.NoError(t, err)

	var perturbed int
	for _, v := range y.Data() {
		if v != 0 {
			perturbed++
		}
	}
	assert.NotZero(t, perturbed, "a nil source must still produce draws")
}

// TestUniformCoefficients verifies range, count and determinism.
func TestUniformCoefficients(t *testing.T) {
	cs := tensor.UniformCoefficients(1000, seeded(3))
	require.Len(t, cs, 1000)
	for _, c := range cs {
		assert.GreaterOrEqual(t, c, 0.0)
		assert.Less(t, c, 1.0)
	}
	assert.Equal(t, cs, tensor.UniformCoefficients(1000, seeded(3)))
}

// TestDrawRows verifies pool sampling returns only pool rows.
func TestDrawRows(t *testing.T) {
	pool, err := tensor.FromSlice([]float64{0, 1, 2}, 3, 1)
	require.NoError(t, err)

	d, err := tensor.DrawRows(pool, 50, seeded(5))
	require.NoError(t, err)
	require.Equal(t, []int{50, 1}, d.Shape())
	for _, v := range d.Data() {
		assert.Contains(t, []float64{0, 1, 2}, v, "drawn rows must come from the pool")
	}

	_, err = tensor.DrawRows(pool, 0, seeded(5))
	assert.ErrorIs(t, err, tensor.ErrBadShape)
}

// TestDrawIndices_SharedDraw verifies determinism so bundles can align
// their baseline draws by reusing one index slice.
func TestDrawIndices_SharedDraw(t *testing.T) {
	a := tensor.DrawIndices(10, 20, seeded(11))
	b := tensor.DrawIndices(10, 20, seeded(11))
	assert.Equal(t, a, b)
	for _, i := range a {
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 10)
	}
}
