package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/scanvocab/scanvocab/internal/client/storage"
	"github.com/scanvocab/scanvocab/internal/models"
)

const (
	keySyncCursor = "sync_cursor"
	keyDeviceID   = "device_id"
)

// Compile-time check that Storage implements the metadata contract
var _ storage.MetadataStorage = (*Storage)(nil)

// SaveSyncCursor stores the full-sync cursor.
func (s *Storage) SaveSyncCursor(ctx context.Context, cursor models.SyncCursor) error {
	return s.putJSON(bucketMetadata, []byte(keySyncCursor), cursor)
}

// GetSyncCursor returns the stored cursor, or the zero cursor if no
// full sync has ever completed.
func (s *Storage) GetSyncCursor(ctx context.Context) (models.SyncCursor, error) {
	var cursor models.SyncCursor
	if s.db == nil {
		return cursor, storage.ErrStorageClosed
	}

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMetadata).Get([]byte(keySyncCursor))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &cursor); err != nil {
			return fmt.Errorf("failed to unmarshal sync cursor: %w", err)
		}
		return nil
	})

	return cursor, err
}

// ResetSyncCursor clears the cursor. Called when the active user
// identity changes.
func (s *Storage) ResetSyncCursor(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketMetadata).Delete([]byte(keySyncCursor)); err != nil {
			return fmt.Errorf("failed to reset sync cursor: %w", err)
		}
		return nil
	})
}

// DeviceID returns the persistent device-scoped identifier, generating
// and storing one on first call. The identifier is used as the user id
// for all local records until authentication resolves.
func (s *Storage) DeviceID(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", storage.ErrStorageClosed
	}

	var id string
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)

		if data := bucket.Get([]byte(keyDeviceID)); data != nil {
			id = string(data)
			return nil
		}

		id = "device:" + uuid.New().String()
		if err := bucket.Put([]byte(keyDeviceID), []byte(id)); err != nil {
			return fmt.Errorf("failed to save device id: %w", err)
		}
		return nil
	})

	return id, err
}
