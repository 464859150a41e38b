// Package noisetunnel smooths any attribution method by averaging it over
// Gaussian perturbations of the input — the SmoothGrad family.
//
// 🚀 What is a noise tunnel?
//
//	Each input example is replicated Samples times, independent zero-mean
//	Gaussian noise is added to every replica, and the wrapped attribution
//	method runs on the perturbed batch. The per-replica attributions are
//	folded into running sum and sum-of-squares accumulators, from which
//	the final statistic is computed per SmoothingMode:
//	  • Smoothgrad   — the mean            (≈ Gaussian-kernel smoothing)
//	  • SmoothgradSq — the mean of squares
//	  • Vargrad      — the variance, computed as E[X²] − E[X]²
//	    (biased, NOT Bessel-corrected — do not assume sample variance)
//
// Algorithm outline:
//  1. Validate mode, sample count and per-tensor noise stdevs.
//  2. Resolve the effective sub-batch size S' = min(Samples, SampleBatchSize);
//     whole = Samples / S' full sub-batches, remainder = Samples − whole·S'.
//  3. Per sub-batch: replicate inputs S'-fold (example-major, replica-minor),
//     add noise, expand the passthrough Config to the S'-fold batch via the
//     pure core.Config.Expand, invoke the wrapped method, and fold the
//     result into the lazily materialized accumulators by summing over the
//     replica axis. A trailing remainder sub-batch repeats this once with
//     S' = remainder, expanding the original Config afresh.
//  4. Combine: mean = sum/Samples, meanSq = sumSq/Samples, then select per
//     mode. Convergence deltas, when requested and supported, concatenate
//     in sub-batch order.
//
// Sub-batching bounds peak memory (replicated inputs × the wrapped
// method's working set) at the cost of strictly sequential sub-batches.
// The trial-count invariant always holds: exactly Samples trials are
// processed regardless of how they split into sub-batches.
//
// Errors:
//   - ErrBadSmoothingMode — unknown SmoothingMode.
//   - ErrBadSamples       — Samples < 1.
//   - ErrBadStdevs        — stdev count disagrees with the input bundle.
//   - ErrNilMethod        — New received a nil attribution method.
//
// All of these are detected before the first wrapped-method call; a failure
// from the wrapped method mid-loop aborts the whole call with accumulators
// discarded.
package noisetunnel
