package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/scanvocab/scanvocab/internal/client/storage"
	"github.com/scanvocab/scanvocab/internal/models"
)

// Compile-time check that Storage implements the queue contract
var _ storage.QueueStorage = (*Storage)(nil)

// Enqueue appends an entry to the sync queue. Keys are the bucket's
// monotonic sequence number in big-endian form, so a cursor scan
// yields entries in insertion order (FIFO). The entry is durable once
// the transaction commits.
func (s *Storage) Enqueue(ctx context.Context, entry models.QueueEntry) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal queue entry: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get queue sequence: %w", err)
		}

		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)

		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save queue entry: %w", err)
		}
		return nil
	})
}

// PeekAll returns every pending entry in insertion order without
// removing any.
func (s *Storage) PeekAll(ctx context.Context) ([]models.QueueEntry, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var entries []models.QueueEntry

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketQueue).ForEach(func(k, v []byte) error {
			var entry models.QueueEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("failed to unmarshal queue entry: %w", err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Remove deletes one entry by its id. Removing an unknown id is a
// no-op.
func (s *Storage) Remove(ctx context.Context, entryID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)

		var key []byte
		err := bucket.ForEach(func(k, v []byte) error {
			var entry models.QueueEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("failed to unmarshal queue entry: %w", err)
			}
			if entry.ID == entryID {
				key = append([]byte(nil), k...)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if key == nil {
			return nil
		}

		if err := bucket.Delete(key); err != nil {
			return fmt.Errorf("failed to delete queue entry: %w", err)
		}
		return nil
	})
}

// Len returns the number of pending entries.
func (s *Storage) Len(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketQueue).Stats().KeyN
		return nil
	})
	return n, err
}
