package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors below wrap one of these so callers can
// classify them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

var (
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrMatchNotFound     = fmt.Errorf("match %w", ErrNotFound)
	ErrLifeEventNotFound = fmt.Errorf("life event %w", ErrNotFound)
	ErrTemplateNotFound  = fmt.Errorf("life event template %w", ErrNotFound)
	ErrStarterNotFound   = fmt.Errorf("conversation starter %w", ErrNotFound)

	ErrInvalidAction     = &ValidationError{Field: "action", Message: "must be one of relate, curious, pass"}
	ErrCannotActOnSelf   = &ValidationError{Field: "user_id", Message: "cannot act on yourself"}
	ErrMissingEventTitle = &ValidationError{Field: "custom_title", Message: "either life_event_id or custom_title is required"}
	ErrInvalidCategory   = &ValidationError{Field: "category", Message: "must be one of formative, turning_points, growth"}

	// ErrNotMatchParticipant is a validation failure that transports report as forbidden.
	ErrNotMatchParticipant = fmt.Errorf("user is not a participant of this match: %w: %w", ErrValidation, ErrForbidden)

	ErrInvalidToken = errors.New("invalid token")

	ErrMatchConflict   = fmt.Errorf("match was modified concurrently: %w", ErrConflict)
	ErrLockNotAcquired = fmt.Errorf("match is locked by another request: %w", ErrConflict)
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
