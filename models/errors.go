package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNotOwner is returned when an actor mutates a resource owned by
	// somebody else.
	ErrNotOwner = errors.New("resource does not belong to the user")

	// ErrSellerMismatch is returned when an add-to-cart targets a product
	// from a different seller than the buyer's existing cart.
	ErrSellerMismatch = errors.New("cart is pinned to a different seller")
)

// ValidationError carries field-level detail for malformed input.
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

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StorageError wraps a blob store failure. On deletes it is logged and must
// never block the corresponding row deletion; on creates it aborts.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
