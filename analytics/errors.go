package analytics

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every projection input validation failure.
var ErrInvalidInput = errors.New("invalid projection input")

// ValidationError names the offending Input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
