package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yak/config"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "yak-test",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateAccessToken(cfg, 42, "alice@example.com")
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "yak-test", claims.Issuer)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateAccessToken(cfg, 42, "alice@example.com")
	require.NoError(t, err)

	other := testJWTConfig()
	other.AccessSecret = "different"
	_, err = ParseAccessToken(other, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateRefreshToken(cfg, 42)
	require.NoError(t, err)

	userID, err := ParseRefreshToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestRefreshTokenNotAcceptedAsAccess(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateRefreshToken(cfg, 42)
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordResetTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GeneratePasswordResetToken(cfg, 42, "hash-a")
	require.NoError(t, err)

	subject, err := PasswordResetSubject(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), subject)

	userID, err := VerifyPasswordResetToken(cfg, token, "hash-a")
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestPasswordResetTokenBoundToHash(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GeneratePasswordResetToken(cfg, 42, "hash-a")
	require.NoError(t, err)

	_, err = VerifyPasswordResetToken(cfg, token, "hash-b")
	assert.ErrorIs(t, err, ErrInvalidToken, "a changed password hash invalidates the token")
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessExpiry = -time.Minute

	token, err := GenerateAccessToken(cfg, 42, "alice@example.com")
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
