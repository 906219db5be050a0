package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough!"

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService(testSecret, 15*time.Minute)

	token, expiresAt, err := svc.GenerateAccessToken("admin@example.com", RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService(testSecret, -time.Minute)

	token, _, err := svc.GenerateAccessToken("admin@example.com", RoleAdmin)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc := NewJWTService(testSecret, 15*time.Minute)
	other := NewJWTService("another-secret-key-also-long-enough", 15*time.Minute)

	token, _, err := svc.GenerateAccessToken("admin@example.com", RoleAdmin)
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_GarbageToken(t *testing.T) {
	svc := NewJWTService(testSecret, 15*time.Minute)

	_, err := svc.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	require.NoError(t, err)
	assert.True(t, CheckPassword("correct-horse-battery", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}
