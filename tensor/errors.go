// Package tensor: sentinel error set.
// All public operations return these sentinels (possibly wrapped with
// context via %w); tests and callers match them with errors.Is. No public
// operation panics on user input.
package tensor

import "errors"

var (
	// ErrBadShape is returned when a requested shape is invalid: rank 0,
	// a non-positive dimension, or backing data whose length disagrees
	// with the shape product.
	ErrBadShape = errors.New("tensor: invalid shape")

	// ErrShapeMismatch is returned when two tensors disagree on a shape
	// constraint required by the operation (full equality for elementwise
	// kernels, equality outside axis 0 for batch-broadcast operations).
	ErrShapeMismatch = errors.New("tensor: shape mismatch")

	// ErrOutOfRange indicates an element or row index outside valid bounds.
	// Public indexers (At/Set/GatherRows) return this, they never panic.
	ErrOutOfRange = errors.New("tensor: index out of range")

	// ErrEmptyBundle is returned by operations over a sequence of tensors
	// (Concat, bundle validation) when the sequence is empty.
	ErrEmptyBundle = errors.New("tensor: empty tensor bundle")

	// ErrBadStdev is returned when a noise standard deviation is negative.
	ErrBadStdev = errors.New("tensor: noise stdev must be non-negative")
)
