package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret-key-for-unit-tests",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "unisearch-test",
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	m := testJWTManager()

	token, jti, err := m.GenerateAccessToken(7, "jane@example.com", "student", 3)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, jti)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, "unisearch-test", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	m := testJWTManager()
	token, _, err := m.GenerateAccessToken(1, "a@b.c", "student", 0)
	require.NoError(t, err)

	other := NewJWTManager(JWTConfig{
		Secret: "a-different-secret",
		Expiry: time.Hour,
	})

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	m := NewJWTManager(JWTConfig{
		Secret: "test-secret-key-for-unit-tests",
		Expiry: -time.Minute, // already expired
	})

	token, _, err := m.GenerateAccessToken(1, "a@b.c", "student", 0)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	m := testJWTManager()
	_, err := m.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshAccessToken(t *testing.T) {
	m := testJWTManager()

	refreshToken, _, err := m.GenerateRefreshToken(9, "x@y.z", "admin", 1)
	require.NoError(t, err)

	accessToken, _, err := m.RefreshAccessToken(refreshToken, 1)
	require.NoError(t, err)

	claims, err := m.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, uint(9), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestRefreshAccessToken_RejectsAccessToken(t *testing.T) {
	m := testJWTManager()

	accessToken, _, err := m.GenerateAccessToken(9, "x@y.z", "admin", 1)
	require.NoError(t, err)

	_, _, err = m.RefreshAccessToken(accessToken, 1)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
