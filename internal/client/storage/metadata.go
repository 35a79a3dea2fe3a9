package storage

import (
	"context"

	"github.com/scanvocab/scanvocab/internal/models"
)

// MetadataStorage holds the small per-device bookkeeping records: the
// full-sync cursor and the device-scoped fallback identity used before
// authentication resolves.
type MetadataStorage interface {
	// SaveSyncCursor stores the cursor after a successful full sync.
	SaveSyncCursor(ctx context.Context, cursor models.SyncCursor) error

	// GetSyncCursor returns the stored cursor, or the zero cursor if
	// no full sync has ever completed.
	GetSyncCursor(ctx context.Context) (models.SyncCursor, error)

	// ResetSyncCursor clears the cursor. Called when the active user
	// identity changes.
	ResetSyncCursor(ctx context.Context) error

	// DeviceID returns the persistent device-scoped identifier,
	// generating and storing one on first call.
	DeviceID(ctx context.Context) (string, error)
}
