package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a username or email is already taken.
var ErrDuplicate = errors.New("duplicate account")

// ErrQuotaExceeded is returned when a storage increment would push
// an account past its storage limit.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// ErrInvalidDelta is returned for a non-positive storage increment.
var ErrInvalidDelta = errors.New("storage delta must be positive")
