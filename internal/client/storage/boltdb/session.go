package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/scanvocab/scanvocab/internal/client/storage"
)

const keySession = "current"

// Compile-time check that Storage implements the session contract
var _ storage.SessionStorage = (*Storage)(nil)

// SaveSession stores the login session, replacing any previous one.
func (s *Storage) SaveSession(ctx context.Context, session *storage.Session) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}
	return s.putJSON(bucketSession, []byte(keySession), session)
}

// GetSession returns the stored session.
func (s *Storage) GetSession(ctx context.Context) (*storage.Session, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var session *storage.Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSession).Get([]byte(keySession))
		if data == nil {
			return storage.ErrSessionNotFound
		}
		session = &storage.Session{}
		if err := json.Unmarshal(data, session); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// DeleteSession removes the stored session (logout).
func (s *Storage) DeleteSession(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketSession).Delete([]byte(keySession)); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	})
}
