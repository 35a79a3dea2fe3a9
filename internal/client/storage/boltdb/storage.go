// Package boltdb implements the device-local side of the dual-store
// model on top of bbolt: the progress records, the durable sync queue,
// the login session and the sync metadata all live in one database
// file, so a UI write is durable the moment the Update transaction
// commits and never waits on the network.
package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	// BoltDB bucket names
	bucketSession      = []byte("session")
	bucketCounters     = []byte("counters")
	bucketActivity     = []byte("activity")
	bucketStreaks      = []byte("streaks")
	bucketWrongAnswers = []byte("wrong_answers")
	bucketQueue        = []byte("sync_queue")
	bucketMetadata     = []byte("metadata")
)

// Storage represents BoltDB storage implementation for the client
type Storage struct {
	db *bbolt.DB
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{db: db}

	if err := storage.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initBuckets creates all buckets up front so readers never have to
// handle a missing bucket.
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{
			bucketSession,
			bucketCounters,
			bucketActivity,
			bucketStreaks,
			bucketWrongAnswers,
			bucketQueue,
			bucketMetadata,
		}
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

// recordKey builds the per-user key for a keyed record. The separator
// cannot appear in user ids or date keys, so prefixes never collide.
func recordKey(userID, key string) []byte {
	return []byte(userID + "/" + key)
}

// userPrefix is the scan prefix for all records owned by one user.
func userPrefix(userID string) []byte {
	return []byte(userID + "/")
}
