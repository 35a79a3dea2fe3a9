package storage

import (
	"context"
	"time"

	"github.com/scanvocab/scanvocab/internal/models"
)

// Session is the locally persisted authentication state plus the
// last-known subscription status. The status is a cache of the remote
// entitlement signal so that entitlement decisions work offline; the
// orchestrator refreshes it whenever it reaches the server.
type Session struct {
	ExpiresAt    time.Time                 `json:"expires_at"`
	UserID       string                    `json:"user_id"`
	Username     string                    `json:"username"`
	AccessToken  string                    `json:"access_token"`
	Subscription models.SubscriptionStatus `json:"subscription"`
}

// Valid reports whether the session carries a usable token.
func (s *Session) Valid(now time.Time) bool {
	return s.AccessToken != "" && now.Before(s.ExpiresAt)
}

// SessionStorage persists the login session on the device.
type SessionStorage interface {
	// SaveSession stores the session, replacing any previous one.
	SaveSession(ctx context.Context, session *Session) error

	// GetSession returns the stored session.
	// Returns ErrSessionNotFound if the user has never logged in or
	// has logged out.
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the stored session (logout).
	DeleteSession(ctx context.Context) error
}
