package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrNonPositiveTolerance indicates a tolerance that is zero, negative,
	// or not a finite number.
	ErrNonPositiveTolerance = errors.New("tolerance must be a positive finite number")

	// ErrNilStructure indicates a nil base structure.
	ErrNilStructure = errors.New("base structure is nil")

	// ErrNilDiff indicates a nil diff.
	ErrNilDiff = errors.New("diff is nil")
)
