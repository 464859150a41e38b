// Package tensor provides the dense numeric type the attribution engine
// computes on: a row-major float64 buffer with an explicit shape whose
// leading axis is always the "example" (batch) axis.
//
// 🚀 What is tensor?
//
//	A deliberately small tensor: no autodiff, no views, no broadcasting
//	engine. It carries exactly the operations the sampling-and-aggregation
//	core needs:
//	  • construction & cloning (New, FromSlice, Full, Clone)
//	  • batch-axis replication (RepeatInterleave, Tile)
//	  • row selection (GatherRows) and axis-0 concatenation (Concat)
//	  • elementwise accumulation kernels backed by gonum/floats
//	  • replica-block reductions (SumReplicas, SumSquaredReplicas)
//	  • stochastic ops (AddGaussianNoise, UniformCoefficients, DrawRows)
//
// Layout:
//
//	shape = (B, d₁, …, dₙ), data is flat row-major, row r of the batch
//	occupies data[r*RowLen() : (r+1)*RowLen()]. RepeatInterleave(k) keeps
//	rows example-major, replica-minor: example e produces k contiguous
//	replicas at rows e*k … e*k+k-1.
//
// Errors:
//   - ErrBadShape      — non-positive dimension, rank 0, or data/shape length mismatch.
//   - ErrShapeMismatch — operands disagree where equality is required.
//   - ErrOutOfRange    — an index is outside valid bounds.
//   - ErrEmptyBundle   — an operation over a set of tensors received none.
//   - ErrBadStdev      — a negative noise standard deviation.
//
// All randomness flows through an explicit rand.Source; pass nil to use the
// process-wide source (not reproducible). Determinism is the caller's
// responsibility: fix the source, fix the results.
package tensor
