package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access denied")
	ErrProvisioningFailed = errors.New("failed to create blog")

	// ErrSubdomainTaken reports a unique violation on blogs.subdomain. It
	// matches ErrConflict so callers that don't retry can treat it as one.
	ErrSubdomainTaken = fmt.Errorf("subdomain %w", ErrConflict)
)

// ValidationError carries per-field reasons. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}
