// Package apperror holds the domain error taxonomy shared by repositories,
// usecases and the transport edge.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrServerFault       = errors.New("server fault")
)

// ValidationError reports a caller-supplied field that failed its constraint.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ServerFault marks err as an infrastructure failure the caller cannot fix.
func ServerFault(msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrServerFault, msg)
	}
	return fmt.Errorf("%w: %s: %w", ErrServerFault, msg, err)
}
