package storage

import "errors"

// Common client storage errors
var (
	// ErrSessionNotFound indicates that no valid session is stored
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidTokenFormat indicates a malformed access or refresh token
	ErrInvalidTokenFormat = errors.New("invalid token format")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
