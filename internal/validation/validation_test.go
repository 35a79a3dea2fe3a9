package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "valid lowercase", username: "alice"},
		{name: "valid with underscore", username: "alice_smith"},
		{name: "valid with numbers", username: "alice123"},
		{name: "valid max length", username: "a1234567890123456789012345678901"},
		{name: "empty", username: "", wantErr: true},
		{name: "too short", username: "ab", wantErr: true},
		{name: "too long", username: "a12345678901234567890123456789012", wantErr: true},
		{name: "hyphen rejected", username: "alice-smith", wantErr: true},
		{name: "space rejected", username: "alice smith", wantErr: true},
		{name: "unicode rejected", username: "アリス太郎", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword("long enough password"))
}

func TestValidateDateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "valid", key: "2026-02-08"},
		{name: "valid leap day", key: "2024-02-29"},
		{name: "empty", key: "", wantErr: true},
		{name: "wrong layout", key: "02/08/2026", wantErr: true},
		{name: "missing zero padding", key: "2026-2-8", wantErr: true},
		{name: "not a calendar day", key: "2026-02-30", wantErr: true},
		{name: "trailing garbage", key: "2026-02-08T00:00:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDateKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDateKey(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	ts := time.Date(2026, 2, 8, 5, 0, 0, 0, loc)
	assert.Equal(t, "2026-02-08", DateKey(ts))

	// DateKey uses the time's own location: the same instant is still
	// the previous day in UTC.
	assert.Equal(t, "2026-02-07", DateKey(ts.UTC()))
}
