package domain

import "fmt"

// ValidationError reports a value object whose own fields violate a
// stated range or ordering invariant. It is raised at construction,
// before a value ever reaches the computation core.
type ValidationError struct {
	Field string // offending field, e.g. "throat_m"
	Msg   string // human-readable constraint, e.g. "must be > 0"
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// DomainError reports a formula precondition that failed given
// otherwise-valid inputs: a non-positive depression, area, density or
// displacement at the point of computation. The computation aborts
// immediately; no partial result is returned.
type DomainError struct {
	Metric  string  // computation that failed, e.g. "cd", "flow_referenced"
	Operand string  // offending operand, e.g. "dp_meas"
	Value   float64 // offending value
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s must be > 0, got %g", e.Metric, e.Operand, e.Value)
}

// AlignmentError reports that series alignment cannot proceed
// structurally, e.g. both sides of a comparison are empty. Partial
// alignment is never an AlignmentError: unmatched lifts are reported as
// diagnostics instead.
type AlignmentError struct {
	Reason string
}

func (e *AlignmentError) Error() string {
	return "alignment failed: " + e.Reason
}

func validationErrorf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

func requirePositive(field string, v float64) error {
	if v <= 0 {
		return validationErrorf(field, "must be > 0, got %g", v)
	}
	return nil
}

func requireNonNegative(field string, v float64) error {
	if v < 0 {
		return validationErrorf(field, "must be >= 0, got %g", v)
	}
	return nil
}
