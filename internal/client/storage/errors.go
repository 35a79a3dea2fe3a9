package storage

import "errors"

// Common client storage errors
var (
	// ErrSessionNotFound indicates that no login session exists
	ErrSessionNotFound = errors.New("session not found")

	// ErrStreakNotFound indicates that no streak has been recorded yet
	ErrStreakNotFound = errors.New("streak not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
