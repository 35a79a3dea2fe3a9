package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	service := NewService("test-secret", time.Hour)

	token, expiresIn, err := service.GenerateAccessToken("user-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), expiresIn)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, _, err := NewService("secret-a", time.Hour).GenerateAccessToken("user-1", "alice")
	require.NoError(t, err)

	_, err = NewService("secret-b", time.Hour).ValidateAccessToken(token)
	require.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	service := NewService("test-secret", time.Hour)
	service.ttl = -time.Minute

	token, _, err := service.GenerateAccessToken("user-1", "alice")
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	require.Error(t, err)
}

func TestValidate_Garbage(t *testing.T) {
	service := NewService("test-secret", time.Hour)
	_, err := service.ValidateAccessToken("not.a.token")
	require.Error(t, err)
}
