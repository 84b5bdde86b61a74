package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateCredential indicates a username or email collision.
	// Storage backends return this from their own uniqueness guard so the
	// check-then-insert race is closed at the storage layer, not only by an
	// application-level pre-check.
	ErrDuplicateCredential = errors.New("username or email already exists")
)
