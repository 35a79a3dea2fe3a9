package validation

import (
	"fmt"
	"regexp"
	"time"
)

// UsernamePattern defines the accepted username format:
// latin letters, digits and underscore, 3-32 characters.
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

const (
	// MinUsernameLen is the minimum username length
	MinUsernameLen = 3
	// MaxUsernameLen is the maximum username length
	MaxUsernameLen = 32

	// DateKeyLayout is the calendar day key format used by every
	// per-day record. Keys in this layout sort correctly as strings.
	DateKeyLayout = "2006-01-02"
)

// ValidateUsername checks that username matches the accepted format.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_)")
	}

	return nil
}

// ValidatePassword checks minimal password requirements.
func ValidatePassword(password string) error {
	const minPasswordLen = 8

	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLen)
	}

	return nil
}

// ValidateDateKey checks that key is a real calendar day in YYYY-MM-DD form.
func ValidateDateKey(key string) error {
	if key == "" {
		return fmt.Errorf("date key cannot be empty")
	}

	parsed, err := time.Parse(DateKeyLayout, key)
	if err != nil {
		return fmt.Errorf("date key must be YYYY-MM-DD: %w", err)
	}

	// time.Parse normalizes out-of-range components (2026-02-30 parses
	// as 2026-03-02), so round-trip to reject them.
	if parsed.Format(DateKeyLayout) != key {
		return fmt.Errorf("date key %q is not a calendar day", key)
	}

	return nil
}

// DateKey formats t as a calendar day key in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}
