package lunchdata

import (
	"errors"
	"fmt"
)

// ErrValidation matches every *ValidationError with errors.Is
var ErrValidation = errors.New("validation failed")

// ValidationError reports input of the wrong shape passed to a save operation
type ValidationError struct {
	Field  string
	Reason string
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
