// Package api holds the wire types shared by the progress service and
// its clients.
package api

// RegisterRequest represents a new account registration
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse represents a successful registration
type RegisterResponse struct {
	UserID  string `json:"user_id"` // UUID
	Message string `json:"message"`
}

// LoginRequest represents an authentication request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse represents an issued access token
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT access token
	UserID      string `json:"user_id"`
	ExpiresIn   int64  `json:"expires_in"` // access token lifetime in seconds
}

// ErrorResponse represents an error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
