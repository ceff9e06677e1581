package crf

import "errors"

// Callers should test for these with errors.Is; the returned errors
// wrap them with detail about which input was at fault.
var(
	// Too few samples or exposures for the system to be determinate.
	ErrInsufficientData = errors.New("crf: insufficient data")

	// Every observation had zero weight, so nothing constrains the curve.
	ErrDegenerateWeights = errors.New("crf: degenerate weights")

	// Non-finite inputs or outputs, or the least squares solve failed.
	ErrNumericalFailure = errors.New("crf: numerical failure")

	// Inputs disagree about their dimensions, or values fall outside the domain.
	ErrShapeMismatch = errors.New("crf: shape mismatch")

	// The pixel domain is too large to solve in physical memory.
	ErrDomainTooLarge = errors.New("crf: pixel domain too large")

	ErrInvalidConfig = errors.New("crf: invalid configuration")
)
