package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)

	t.Run("correct password verifies", func(t *testing.T) {
		ok, err := VerifyPassword(hash, "hunter22")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password fails", func(t *testing.T) {
		ok, err := VerifyPassword(hash, "hunter23")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("hashes are salted", func(t *testing.T) {
		other, err := HashPassword("hunter22")
		require.NoError(t, err)
		assert.NotEqual(t, hash, other)
	})
}
