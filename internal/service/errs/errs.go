// Package errs holds the error kinds the service layer reports to transports.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError reports a request the caller can correct.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return e.Field + ": " + e.Message
}

// NotFoundError reports an unknown entity id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError reports a change that the current state of the entity forbids.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// StoreError wraps a persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Validation creates a ValidationError.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFound creates a NotFoundError.
func NotFound(entity string, id fmt.Stringer) error {
	return &NotFoundError{Entity: entity, ID: id.String()}
}

// Store wraps err into a StoreError unless it already carries a service error kind.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsKnown(err) {
		return err
	}

	return &StoreError{Op: op, Err: err}
}

// IsKnown reports whether err is one of the service error kinds.
func IsKnown(err error) bool {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		conflictErr   *ConflictError
		storeErr      *StoreError
	)

	return errors.As(err, &validationErr) ||
		errors.As(err, &notFoundErr) ||
		errors.As(err, &conflictErr) ||
		errors.As(err, &storeErr)
}
