package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H3nrYP0/optica-api/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "optica-api",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()

	signed, err := MintAccessToken(cfg, time.Now(), 42, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := ParseAccessToken(cfg, signed)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "optica-api", claims.Issuer)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()

	signed, err := MintAccessToken(cfg, time.Now(), 1, "seller")
	require.NoError(t, err)

	other := cfg
	other.Secret = "different"
	_, err = ParseAccessToken(other, signed)
	assert.Error(t, err)
}

func TestMintAccessTokenRequiresSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = ""

	_, err := MintAccessToken(cfg, time.Now(), 1, "seller")
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()

	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), 1, "seller")
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, signed)
	assert.Error(t, err)
}
