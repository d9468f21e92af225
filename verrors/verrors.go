// Package verrors declares the sentinel error kinds shared across the
// verification engine, mirroring the way katalvlaran/lvlath declares one
// sentinel per failure mode and wraps it with call-site context via %w.
package verrors

import "errors"

// Sentinel error kinds. Call sites wrap these with fmt.Errorf("...: %w", ErrX)
// so callers can still branch with errors.Is while humans get a useful message.
var (
	// ErrWellFormedness marks a formula, module or automaton that fails a
	// static well-formedness check (e.g. a PCTL path formula used where a
	// state formula is required, or lb > ub in a Probability operator).
	ErrWellFormedness = errors.New("well-formedness violation")

	// ErrSemantic marks a runtime semantic failure, such as evaluating a
	// boolean expression over a variable the state does not assign.
	ErrSemantic = errors.New("semantic error")

	// ErrInvalidArgument marks a caller-supplied argument that violates a
	// precondition, such as overlapping bad/target state sets.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoPath marks the absence of a path where one was required, e.g.
	// no accepting lasso could be extracted from a non-empty product.
	ErrNoPath = errors.New("no path")

	// ErrNumeric marks a failure in the numerical engine, such as a
	// singular transition sub-matrix during Gaussian elimination.
	ErrNumeric = errors.New("numeric error")

	// ErrUnsupported marks an operation a stub engine deliberately does
	// not implement (the sparse DTMC engine).
	ErrUnsupported = errors.New("unsupported operation")
)
