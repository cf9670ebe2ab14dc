package utils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaar/config"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: "1h",
	}
	os.Exit(m.Run())
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "ana@example.com", true)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(1, "a@b.c", false)
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "rotated"
	defer func() { config.AppConfig.JWTSecret = "test-secret" }()

	_, err = ValidateToken(token)
	assert.Error(t, err)
}
