package adherence

import (
	"errors"
	"fmt"
)

// ValidationError is returned when the caller passes input the engine refuses to work with:
// pain level out of range, unknown exercise, malformed date, etc.
// Validation errors are never recovered from silently.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateError is returned when the action is valid but the plan does not accept it right now
// (plan not active, skipping disabled by settings).
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return "state error: " + e.Reason
}

// ComputationError signals a broken ledger invariant, e.g. two entries for the same day.
// It should not happen with ledgers produced by this package.
type ComputationError struct {
	Reason string
}

func (e *ComputationError) Error() string {
	return "computation error: " + e.Reason
}

func newValidationError(field, format string, args ...any) error {
	return &ValidationError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

func IsStateError(err error) bool {
	var sErr *StateError
	return errors.As(err, &sErr)
}

func IsComputationError(err error) bool {
	var cErr *ComputationError
	return errors.As(err, &cErr)
}
