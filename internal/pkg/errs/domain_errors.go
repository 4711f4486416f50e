package errs

import "fmt"

// Sentinels shared across the usecase and handler layers
var (
	ErrValidation = New("validation failed")
	ErrForbidden  = New("actor is not allowed to perform this operation")

	ErrIdempotencyKeyReused = New("idempotency key reused with a different request")
)

// ValidationError names the offending input so callers can report it field by field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
