package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scanvocab/scanvocab/internal/models"
	"github.com/scanvocab/scanvocab/internal/server/storage"
)

var _ storage.UserStorage = (*Storage)(nil)

type userRow struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Subscription string    `db:"subscription"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Subscription: models.SubscriptionStatus(r.Subscription),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// CreateUser creates a new user.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, subscription, created_at, updated_at)
		VALUES (:id, :username, :password_hash, :subscription, :created_at, :updated_at)
	`
	_, err := s.db.NamedExecContext(ctx, query, userRow{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Subscription: string(user.Subscription),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.username") {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByUsername retrieves a user by username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, username, password_hash, subscription, created_at, updated_at
		 FROM users WHERE username = ?`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return row.toModel(), nil
}

// GetUserByID retrieves a user by id.
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, username, password_hash, subscription, created_at, updated_at
		 FROM users WHERE id = ?`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return row.toModel(), nil
}

// UpdateSubscription sets the user's subscription status.
func (s *Storage) UpdateSubscription(ctx context.Context, userID string, status models.SubscriptionStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET subscription = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}
