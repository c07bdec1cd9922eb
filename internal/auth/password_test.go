package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes and verifies a valid password", func(t *testing.T) {
		hash, err := HashPassword("a-long-enough-password", 4)
		require.NoError(t, err)
		assert.NotEqual(t, "a-long-enough-password", hash)
		assert.NoError(t, CheckPassword("a-long-enough-password", hash))
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		_, err := HashPassword("short", 4)
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("wrong password fails verification", func(t *testing.T) {
		hash, err := HashPassword("a-long-enough-password", 4)
		require.NoError(t, err)
		assert.ErrorIs(t, CheckPassword("a-different-password", hash), ErrInvalidPassword)
	})
}

func TestGenerateAPIToken(t *testing.T) {
	t.Run("hash matches HashToken of the plaintext", func(t *testing.T) {
		plaintext, hash, err := GenerateAPIToken()
		require.NoError(t, err)
		assert.Len(t, plaintext, 64)
		assert.Equal(t, HashToken(plaintext), hash)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		first, _, err := GenerateAPIToken()
		require.NoError(t, err)
		second, _, err := GenerateAPIToken()
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}
