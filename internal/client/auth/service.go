// Package auth manages the client session lifecycle: register, login,
// logout, and the identity handoff from the device id to the account.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/scanvocab/scanvocab/internal/client/storage"
	"github.com/scanvocab/scanvocab/internal/models"
	"github.com/scanvocab/scanvocab/internal/validation"
	pkgapi "github.com/scanvocab/scanvocab/pkg/api"
)

// APIClient is the slice of the HTTP client the auth flow needs.
type APIClient interface {
	Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.RegisterResponse, error)
	Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error)
	Subscription(ctx context.Context) (models.SubscriptionStatus, error)
}

// Adopter re-keys progress recorded under one identity to another.
type Adopter interface {
	AdoptLocalProgress(ctx context.Context, fromUserID, toUserID string) error
}

// Service handles register/login/logout against the remote service and
// the session record in local storage.
type Service struct {
	now     func() time.Time
	api     APIClient
	session storage.SessionStorage
	meta    storage.MetadataStorage
	adopter Adopter
	logger  *slog.Logger
}

// NewService creates the auth service.
func NewService(
	api APIClient,
	session storage.SessionStorage,
	meta storage.MetadataStorage,
	adopter Adopter,
	logger *slog.Logger,
) *Service {
	return &Service{
		now:     time.Now,
		api:     api,
		session: session,
		meta:    meta,
		adopter: adopter,
		logger:  logger,
	}
}

// Register creates a new account. The user still has to log in.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return "", fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.api.Register(ctx, pkgapi.RegisterRequest{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("registration failed: %w", err)
	}

	s.logger.Info("registered", "username", username, "user_id", resp.UserID)
	return resp.UserID, nil
}

// Login authenticates, stores the session, refreshes the subscription
// status and adopts progress recorded under the device identity. An
// identity change resets the sync cursor so the next cycle runs a full
// sync under the new user.
func (s *Service) Login(ctx context.Context, username, password string) (*storage.Session, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}

	token, err := s.api.Login(ctx, pkgapi.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	session := &storage.Session{
		ExpiresAt:    s.now().Add(time.Duration(token.ExpiresIn) * time.Second),
		UserID:       token.UserID,
		Username:     username,
		AccessToken:  token.AccessToken,
		Subscription: models.StatusNone,
	}
	if err := s.session.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	// The token source reads the stored session, so the subscription
	// check has to happen after the save.
	if status, err := s.api.Subscription(ctx); err != nil {
		s.logger.Warn("subscription check failed at login", "error", err)
	} else {
		session.Subscription = status
		if err := s.session.SaveSession(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
	}

	cursor, err := s.meta.GetSyncCursor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sync cursor: %w", err)
	}
	if cursor.SyncedUserID != token.UserID {
		if err := s.meta.ResetSyncCursor(ctx); err != nil {
			return nil, fmt.Errorf("failed to reset sync cursor: %w", err)
		}
	}

	deviceID, err := s.meta.DeviceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read device id: %w", err)
	}
	if err := s.adopter.AdoptLocalProgress(ctx, deviceID, token.UserID); err != nil {
		return nil, fmt.Errorf("failed to adopt local progress: %w", err)
	}

	s.logger.Info("logged in",
		"username", username,
		"user_id", token.UserID,
		"subscription", session.Subscription)

	return session, nil
}

// Logout removes the stored session. Local progress is kept; the
// client falls back to the device identity.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.session.DeleteSession(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

// IsAuthenticated reports whether a valid session is stored.
func (s *Service) IsAuthenticated(ctx context.Context) (bool, error) {
	session, err := s.session.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read session: %w", err)
	}
	return session.Valid(s.now()), nil
}
