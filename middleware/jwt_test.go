package middleware

import (
	"testing"

	"finvoice/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestConfig() {
	config.AppConfig = &config.Config{
		JWTKey:             "test-secret",
		AccessTokenMinutes: 15,
		RefreshTokenDays:   7,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	setupTestConfig()

	token, err := GenerateJWT(42, "Ravi", "ravi@example.com", "9876543210")
	require.NoError(t, err)

	claims, err := ParseToken(token, "access")
	require.NoError(t, err)
	assert.Equal(t, float64(42), claims["userId"])
	assert.Equal(t, "access", claims["type"])

	// An access token is not a refresh token
	_, err = ParseToken(token, "refresh")
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	setupTestConfig()

	token, err := GenerateRefreshJWT(42)
	require.NoError(t, err)

	claims, err := ParseToken(token, "refresh")
	require.NoError(t, err)
	assert.Equal(t, float64(42), claims["userId"])
}

func TestParseTokenRejectsTampering(t *testing.T) {
	setupTestConfig()

	token, err := GenerateJWT(42, "Ravi", "ravi@example.com", "9876543210")
	require.NoError(t, err)

	_, err = ParseToken(token+"x", "access")
	assert.Error(t, err)

	config.AppConfig.JWTKey = "other-secret"
	_, err = ParseToken(token, "access")
	assert.Error(t, err)
}
