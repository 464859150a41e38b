// Package core: sentinel error set shared by all attribution packages.
package core

import "errors"

var (
	// ErrNotSupported marks an intentionally unimplemented operation, such
	// as the asynchronous attribution entry point. No partial work is
	// performed before it is returned.
	ErrNotSupported = errors.New("core: operation not supported")

	// ErrNilForward is returned by constructors given a nil forward function.
	ErrNilForward = errors.New("core: forward function is nil")

	// ErrBadBaseline indicates a baseline whose form or arity disagrees with
	// the inputs: wrong tensor/scalar count, or a generator returning a
	// mismatched bundle.
	ErrBadBaseline = errors.New("core: invalid baseline")

	// ErrBadTarget indicates a target selector incompatible with the model
	// output: an index for a scalar output, an out-of-range column, or a
	// per-example selector whose length differs from the batch size.
	ErrBadTarget = errors.New("core: invalid target")
)
