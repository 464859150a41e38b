// Package core: the built-in numeric gradient engine.
package core

import (
	"fmt"

	"gonum.org/v1/gonum/diff/fd"

	"github.com/grale-ml/grale/tensor"
)

// NumericGradients is a GradientFunc computing central finite differences.
// It is the default engine when no autodiff backend is wired in: exact
// enough for smooth models and for validating analytic engines, but it
// costs two forward evaluations per input element per example. Production
// callers with large models should plug in a real engine.
//
// Gradients are taken with respect to each example's own output row only;
// cross-example terms are zero by the batch-alignment contract of
// ForwardFunc.
func NumericGradients(f ForwardFunc, points []*tensor.Tensor, target Target, extraArgs []any) ([]*tensor.Tensor, error) {
	if f == nil {
		return nil, ErrNilForward
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("core: NumericGradients: %w", tensor.ErrEmptyBundle)
	}
	b := points[0].Batch()

	grads := make([]*tensor.Tensor, len(points))
	for i := range points {
		grads[i] = points[i].Clone() // becomes the gradient buffer
	}

	// fd.Gradient drives the probes; evalErr carries the first forward
	// failure out of the closure since fd has no error channel.
	var evalErr error
	settings := &fd.Settings{Formula: fd.Central}

	for ti, p := range points {
		w := p.RowLen()
		for e := 0; e < b; e++ {
			row, err := grads[ti].Row(e)
			if err != nil {
				return nil, err
			}
			orig, err := p.Row(e)
			if err != nil {
				return nil, err
			}
			eval := func(x []float64) float64 {
				if evalErr != nil {
					return 0
				}
				probe := make([]*tensor.Tensor, len(points))
				for j, q := range points {
					probe[j] = q
				}
				probe[ti] = p.Clone()
				probeRow, _ := probe[ti].Row(e)
				copy(probeRow, x)
				out, err := forwardSelected(f, probe, extraArgs, target)
				if err != nil {
					evalErr = err
					return 0
				}
				v, err := out.At(e)
				if err != nil {
					evalErr = err
					return 0
				}
				return v
			}
			fd.Gradient(row[:w], eval, orig[:w], settings)
			if evalErr != nil {
				return nil, fmt.Errorf("core: NumericGradients: %w", evalErr)
			}
		}
	}
	return grads, nil
}
