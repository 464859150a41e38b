// Package gradshap implements GradientSHAP: expected gradients over a
// baseline distribution, approximating SHAP values for models whose
// explanation is assumed locally linear with independent features.
//
// 🚀 How it works
//
//	For each of Samples trials per example, GradientSHAP
//	  1. adds zero-mean Gaussian noise to the input,
//	  2. draws one reference example from the baseline pool,
//	  3. picks a single random point on the segment between the drawn
//	     baseline and the noisy input (one Uniform(0,1) coefficient per
//	     example — NOT a path integral),
//	  4. takes the model gradient there, and
//	  5. (by default) multiplies it by (input − baseline).
//	The final attribution is the mean over all trials.
//
// Two types:
//
//	InputBaselineGradient — the single-trial building block: interpolate,
//	  differentiate, optionally scale by (input − baseline). Usable on its
//	  own or wrapped by any aggregator.
//	GradientShap — the orchestrator: resolves the baseline distribution and
//	  delegates all sampling and aggregation to a noisetunnel.Tunnel over a
//	  fresh InputBaselineGradient, with baseline draws enabled.
//
// Determinism: the interpolation coefficients and all noise draws are fresh
// on every call. Results are reproducible only when the caller supplies a
// fixed random source via WithRand / Options.Rand.
//
// Errors:
//   - ErrScalarBaseline — GradientShap needs a tensor-bundle baseline pool;
//     scalar baselines carry no distribution to sample from.
//   - tensor.ErrShapeMismatch — input/baseline disagreement outside the
//     example axis.
//   - core.ErrNotSupported — the AttributeFuture entry points.
//
// Gradient-engine or forward failures propagate unchanged.
package gradshap
