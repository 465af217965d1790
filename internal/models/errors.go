package models

import "errors"

var (
	// ErrUnauthenticated indicates a missing, malformed or expired credential.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates the caller's role does not permit the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates the requested entity was not found, or is not visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrEmptyCart indicates checkout of a missing or empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("conflict")
	// ErrInternal indicates a storage or connectivity failure. Callers may retry.
	ErrInternal = errors.New("internal error")
)
