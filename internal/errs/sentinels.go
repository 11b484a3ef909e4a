// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., name or username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrConstraint indicates a non-unique integrity violation (e.g., dangling foreign key).
	ErrConstraint = errors.New("constraint violation")

	// ErrStorageUnavailable indicates a connectivity or shutdown-class storage failure.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidCredentials indicates failed login; deliberately identical for
	// unknown username and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidInput indicates malformed or out-of-range request data.
	ErrInvalidInput = errors.New("invalid input")
)
