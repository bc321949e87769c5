package shared

import "fmt"

// ValidationError reports a caller supplying a malformed value to a setter or constructor.
// These fail at the point of assignment, never during a lookup.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (value: %q)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func NewValidationErrorWithValue(field, value, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}
