// Package core defines the contracts every attribution algorithm in this
// module shares: the model boundary (forward function, gradient engine,
// output target), the baseline forms, the passthrough configuration with
// its pure per-sub-batch expansion, the Attributor interface with explicit
// capability flags, and the convergence-delta diagnostic.
//
// 🚀 What lives here?
//
//	ForwardFunc / GradientFunc — the model and its (pluggable) gradient
//	  engine. NumericGradients is the built-in central-difference engine
//	  for when no autodiff backend is wired in.
//	Target       — selects which model output column gradients are taken
//	  against: none (scalar output), one fixed column, or one per example.
//	Baselines    — the reference distribution: a tensor bundle, a scalar
//	  per input tensor, or a generator function invoked at attribution time.
//	Config       — the passthrough argument set handed to a wrapped
//	  attributor. Config.Expand is a PURE function: it returns a fresh
//	  configuration matched to a k-fold-expanded batch and never mutates
//	  the original, so every sub-batch expansion is independent.
//	Attributor   — the interface the noise tunnel wraps. Capabilities is an
//	  explicit descriptor (delta support, gradient-based, multiplies by
//	  inputs) queried directly instead of via type inspection.
//	Result       — one return type for all attribute calls; Delta is nil
//	  unless requested and supported.
//
// Errors:
//   - ErrNotSupported — the asynchronous attribution entry point, which no
//     algorithm in this module implements yet.
//   - ErrNilForward   — a constructor received a nil forward function.
//   - ErrBadBaseline  — baseline count/form disagrees with the inputs.
//   - ErrBadTarget    — target selector disagrees with the model output.
//
// All errors are sentinels; match with errors.Is.
package core
