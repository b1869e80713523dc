// Package common defines the sentinel errors shared by the record store,
// the attachment manager and the credential service. Callers match them
// with errors.Is.
package common

import (
	"errors"
	"fmt"
)

var (
	// Record store errors.
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("concurrent modification")
	ErrDuplicate  = errors.New("already exists")
	ErrValidation = errors.New("validation error")

	// Credential errors. The message is deliberately generic.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	// Attachment errors.
	ErrStorage          = errors.New("storage error")
	ErrInvalidReference = errors.New("invalid file reference")
)

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError is a shorthand for &ValidationError{...}.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StorageError wraps a content store failure for a single file.
type StorageError struct {
	Op  string
	Ref string
	Err error
}

func (e *StorageError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", ErrStorage, e.Op, e.Ref, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
