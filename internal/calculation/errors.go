package calculation

import "errors"

// ErrorKind discriminates calculation failures so callers can branch without
// string matching.
type ErrorKind string

const (
	// KindInvalidInput marks a config with non-finite required fields or an
	// invalid solver target. The calculation aborts with no partial result.
	KindInvalidInput ErrorKind = "invalid_input"
	// KindUnreachableTarget marks an inverse-solver target that cannot be
	// reached within the bracketing budget.
	KindUnreachableTarget ErrorKind = "unreachable_target"
	// KindDegenerateInput marks a closed-form solve with zero hours, zero
	// weeks, or a 100% tax rate.
	KindDegenerateInput ErrorKind = "degenerate_input"
	// KindInternal marks an unexpected failure recovered at the engine
	// boundary.
	KindInternal ErrorKind = "internal"
)

// CalculationError is the tagged failure value returned by the engine. The
// engine never panics past its public boundary.
type CalculationError struct {
	Kind    ErrorKind
	Op      string
	Message string
}

func (e *CalculationError) Error() string {
	return e.Op + ": " + e.Message
}

func newError(kind ErrorKind, op, message string) *CalculationError {
	return &CalculationError{Kind: kind, Op: op, Message: message}
}

// KindOf extracts the ErrorKind from an error chain, or "" when the error is
// not a CalculationError.
func KindOf(err error) ErrorKind {
	var ce *CalculationError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
