package noisetunnel

import (
	"fmt"
	"math/rand/v2"

	"github.com/grale-ml/grale/core"
	"github.com/grale-ml/grale/tensor"
)

// Tunnel wraps an attribution method and smooths it over Gaussian
// perturbations of the input. The wrapped method's capabilities are
// captured at construction; no per-call state survives between Attribute
// invocations, so a Tunnel is re-entrant whenever the wrapped method is.
type Tunnel struct {
	method core.Attributor
	caps   core.Capabilities
}

// New wraps method in a noise tunnel.
func New(method core.Attributor) (*Tunnel, error) {
	if method == nil {
		return nil, ErrNilMethod
	}
	return &Tunnel{method: method, caps: method.Capabilities()}, nil
}

// Capabilities mirrors the wrapped method: the tunnel smooths, it does not
// change what the method fundamentally computes.
func (t *Tunnel) Capabilities() core.Capabilities { return t.caps }

// Attribute runs opts.Samples noisy trials of the wrapped method on inputs
// and combines them per opts.Mode. cfg is the passthrough configuration for
// the wrapped method; it is expanded per sub-batch via core.Config.Expand
// and never mutated.
//
// The result's attributions mirror the input bundle. Delta is present only
// when cfg.ReturnConvergenceDelta is set and the wrapped method supports
// it; it then holds one scalar per example per trial, in trial order.
func (t *Tunnel) Attribute(inputs []*tensor.Tensor, cfg core.Config, opts Options) (*core.Result, error) {
	if err := validateInputs(inputs); err != nil {
		return nil, err
	}
	if !opts.Mode.valid() {
		return nil, fmt.Errorf("%w: %v", ErrBadSmoothingMode, opts.Mode)
	}
	samples := opts.Samples
	if samples == 0 {
		samples = DefaultSamples
	}
	if samples < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSamples, opts.Samples)
	}
	stdevs, err := resolveStdevs(opts.Stdevs, len(inputs))
	if err != nil {
		return nil, err
	}

	// Effective sub-batch size and partition: `whole` full sub-batches of
	// size batchSize, plus one remainder sub-batch absorbing what is left.
	batchSize := samples
	if opts.SampleBatchSize > 0 && opts.SampleBatchSize < samples {
		batchSize = opts.SampleBatchSize
	}
	whole := samples / batchSize
	remainder := samples - whole*batchSize

	wantDelta := cfg.ReturnConvergenceDelta && t.caps.HasConvergenceDelta
	src := opts.Rand

	// Running aggregate: one slot per input tensor, materialized on the
	// first sub-batch result (the accumulator shape is not known until the
	// wrapped method returns).
	var sum, sumSq []*tensor.Tensor
	var deltas []*tensor.Tensor

	runSubBatch := func(k int, sub core.Config) error {
		noisy, err := perturb(inputs, k, stdevs, src)
		if err != nil {
			return err
		}
		res, err := t.method.Attribute(noisy, sub)
		if err != nil {
			return err
		}
		if len(res.Attributions) != len(inputs) {
			return fmt.Errorf("noisetunnel: wrapped method returned %d attributions for %d inputs: %w",
				len(res.Attributions), len(inputs), tensor.ErrShapeMismatch)
		}
		if sum == nil {
			sum = make([]*tensor.Tensor, len(inputs))
			sumSq = make([]*tensor.Tensor, len(inputs))
		}
		for i, attr := range res.Attributions {
			partSum, err := attr.SumReplicas(k)
			if err != nil {
				return err
			}
			partSq, err := attr.SumSquaredReplicas(k)
			if err != nil {
				return err
			}
			if sum[i] == nil {
				sum[i], sumSq[i] = partSum, partSq
				continue
			}
			if err = sum[i].Add(partSum); err != nil {
				return err
			}
			if err = sumSq[i].Add(partSq); err != nil {
				return err
			}
		}
		if wantDelta && res.Delta != nil {
			deltas = append(deltas, res.Delta)
		}
		return nil
	}

	if whole > 0 {
		// One expansion serves every full sub-batch; drawn baselines are
		// therefore shared across full sub-batches, while noise is fresh
		// per sub-batch.
		sub, err := cfg.Expand(batchSize, inputs, opts.DrawBaselineFromDistrib, src)
		if err != nil {
			return nil, err
		}
		for b := 0; b < whole; b++ {
			if err = runSubBatch(batchSize, sub); err != nil {
				return nil, err
			}
		}
	}
	if remainder > 0 {
		// The remainder expands the ORIGINAL config through the same pure
		// path as the full sub-batches; nothing is mutated in place.
		sub, err := cfg.Expand(remainder, inputs, opts.DrawBaselineFromDistrib, src)
		if err != nil {
			return nil, err
		}
		if err = runSubBatch(remainder, sub); err != nil {
			return nil, err
		}
	}

	out := make([]*tensor.Tensor, len(inputs))
	for i := range sum {
		mean := sum[i].Clone()
		mean.Scale(1 / float64(samples))
		meanSq := sumSq[i].Clone()
		meanSq.Scale(1 / float64(samples))

		switch opts.Mode {
		case Smoothgrad:
			out[i] = mean
		case SmoothgradSq:
			out[i] = meanSq
		default: // Vargrad: E[X²] − E[X]², biased on purpose
			meanSquared, err := mean.Mul(mean)
			if err != nil {
				return nil, err
			}
			if out[i], err = meanSq.Sub(meanSquared); err != nil {
				return nil, err
			}
		}
	}

	result := &core.Result{Attributions: out}
	if wantDelta && len(deltas) > 0 {
		if result.Delta, err = tensor.Concat(deltas...); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// AttributeFuture is the asynchronous attribution entry point. It is not
// implemented for noise tunnels.
func (t *Tunnel) AttributeFuture([]*tensor.Tensor, core.Config, Options) (*core.Result, error) {
	return nil, fmt.Errorf("noisetunnel: AttributeFuture: %w", core.ErrNotSupported)
}

// perturb replicates every input k-fold and adds per-tensor Gaussian noise.
func perturb(inputs []*tensor.Tensor, k int, stdevs []float64, src rand.Source) ([]*tensor.Tensor, error) {
	noisy := make([]*tensor.Tensor, len(inputs))
	for i, in := range inputs {
		rep, err := in.RepeatInterleave(k)
		if err != nil {
			return nil, err
		}
		if noisy[i], err = rep.AddGaussianNoise(stdevs[i], src); err != nil {
			return nil, err
		}
	}
	return noisy, nil
}

// resolveStdevs normalizes the stdev option to one value per input tensor.
func resolveStdevs(stdevs []float64, n int) ([]float64, error) {
	switch len(stdevs) {
	case 0:
		out := make([]float64, n)
		for i := range out {
			out[i] = DefaultStdev
		}
		return out, nil
	case 1:
		out := make([]float64, n)
		for i := range out {
			out[i] = stdevs[0]
		}
		return out, nil
	case n:
		return append([]float64(nil), stdevs...), nil
	default:
		return nil, fmt.Errorf("%w: got %d stdevs for %d inputs", ErrBadStdevs, len(stdevs), n)
	}
}

// validateInputs checks the bundle is non-empty with aligned example axes.
func validateInputs(inputs []*tensor.Tensor) error {
	if len(inputs) == 0 {
		return fmt.Errorf("noisetunnel: %w", tensor.ErrEmptyBundle)
	}
	for _, in := range inputs[1:] {
		if in.Batch() != inputs[0].Batch() {
			return fmt.Errorf("noisetunnel: example axes %d vs %d: %w",
				inputs[0].Batch(), in.Batch(), tensor.ErrShapeMismatch)
		}
	}
	return nil
}
