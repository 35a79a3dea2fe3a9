package models

import "time"

// User represents a registered account on the progress service.
type User struct {
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	ID           string             `json:"id"` // UUID
	Username     string             `json:"username"`
	PasswordHash string             `json:"-"` // bcrypt hash, never serialized
	Subscription SubscriptionStatus `json:"subscription"`
}

// SubscriptionStatus is the raw status string reported by the billing
// subsystem. Only StatusActive grants remote sync; every other value
// (including unknown future ones) is treated as not entitled.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusExpired  SubscriptionStatus = "expired"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusNone     SubscriptionStatus = ""
)

// Entitled reports whether the status grants cross-device sync.
func (s SubscriptionStatus) Entitled() bool {
	return s == StatusActive
}
