// Package storage defines the server-side persistence contracts.
package storage

import (
	"context"

	"github.com/scanvocab/scanvocab/internal/models"
)

// UserStorage persists accounts.
type UserStorage interface {
	// CreateUser creates a new user.
	// Returns ErrUserAlreadyExists if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves a user by username.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves a user by id.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateSubscription sets the user's subscription status.
	// Returns ErrUserNotFound if the user doesn't exist.
	UpdateSubscription(ctx context.Context, userID string, status models.SubscriptionStatus) error
}
