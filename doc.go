// Package grale is a model-agnostic gradient attribution toolkit: it
// explains a differentiable model's output by aggregating many perturbed
// gradient evaluations.
//
// 🚀 What is grale?
//
//	A small, focused library that brings together:
//		• Dense tensors: batch-major float64 tensors with a leading example axis
//		• GradientSHAP: expected gradients over a baseline distribution
//		• Noise tunnel: SmoothGrad / SmoothGrad² / VarGrad smoothing of any
//		  attribution method, with bounded-memory sub-batching
//		• Pluggable gradient engines: bring your own autodiff, or fall back
//		  to the built-in central-difference engine
//
// ✨ Why choose grale?
//
//   - Exact numerical semantics – sub-batch partitioning never changes the
//     trial count; variance is documented as biased E[X²]−E[X]²
//   - Deterministic on demand – every stochastic entry point accepts a
//     caller-owned random source
//   - Explicit errors – package-level sentinels, matched with errors.Is
//   - Pure Go – no cgo, numerics via gonum
//
// Under the hood, everything is organized under four subpackages:
//
//	tensor/      — dense row-major tensors + the bundle ops the core needs
//	core/        — Attributor contract, capability flags, baselines, targets
//	noisetunnel/ — the perturbation aggregator (smoothing family)
//	gradshap/    — baseline-gradient attributor + GradientSHAP orchestrator
//
// Control flow for GradientSHAP:
//
//	caller → gradshap → noisetunnel (loop over sub-batches)
//	       → input×(baseline gradient) per sub-batch → gradient engine
//
// Dive into each package's doc.go for the algorithm outlines, error
// taxonomies and worked examples.
//
//	go get github.com/grale-ml/grale
package grale
