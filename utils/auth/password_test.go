package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, VerifyPassword(hash, "correct horse battery"))
	assert.ErrorIs(t, VerifyPassword(hash, "wrong password"), ErrPasswordMismatch)
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestIsPasswordValid(t *testing.T) {
	assert.False(t, IsPasswordValid("1234567"))
	assert.True(t, IsPasswordValid("12345678"))
}
