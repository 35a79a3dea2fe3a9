package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates the user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates the username is taken
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrStreakNotFound indicates the user has no streak record yet
	ErrStreakNotFound = errors.New("streak not found")
)
