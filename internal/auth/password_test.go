package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("bookworm1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "bookworm1", hash)

	// Hashing is salted, two hashes of the same password differ
	hash2, err := HashPassword("bookworm1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestHashPassword_LengthLimits(t *testing.T) {
	_, err := HashPassword("short", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = HashPassword(strings.Repeat("a", 73), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = HashPassword(strings.Repeat("a", 72), bcrypt.MinCost)
	assert.NoError(t, err)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("bookworm1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, CheckPassword("bookworm1", hash))
	assert.ErrorIs(t, CheckPassword("wrong-password", hash), ErrInvalidPassword)
}

func TestGenerateSessionSecret(t *testing.T) {
	secret, err := GenerateSessionSecret()
	require.NoError(t, err)
	assert.Len(t, secret, 64) // 32 bytes hex encoded

	other, err := GenerateSessionSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}
