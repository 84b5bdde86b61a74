package model

import "time"

// AccountID uniquely identifies an account across the system.
// IDs are assigned by storage at creation and never reused after deletion.
type AccountID int64

// Account represents a persisted user record.
// PasswordHash is a bcrypt hash; the plaintext password is never stored
// or logged, and the hash is never exposed over any external surface.
type Account struct {
	ID           AccountID
	Username     string // login username (immutable after creation)
	Email        string // unique, mutable by owner or admin
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
