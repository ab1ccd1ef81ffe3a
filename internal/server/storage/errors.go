package storage

import "errors"

// Common storage errors
var (
	// ErrAccountNotFound indicates that no account matched the lookup.
	ErrAccountNotFound = errors.New("account not found")

	// ErrEmailTaken indicates that an account with this email already exists.
	ErrEmailTaken = errors.New("email already registered")
)
