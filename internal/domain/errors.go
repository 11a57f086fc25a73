package domain

import (
	"fmt"
)

// ErrNotFound reports a missing entity by type and ID
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found with ID: %s", e.Entity, e.ID)
}

// ErrInactiveConfiguration reports an email configuration that exists but is
// disabled; batches pointing at it cannot run.
type ErrInactiveConfiguration struct {
	ConfigID string
}

func (e *ErrInactiveConfiguration) Error() string {
	return fmt.Sprintf("email configuration is not active: %s", e.ConfigID)
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}
