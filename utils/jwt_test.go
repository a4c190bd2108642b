package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/feedbbs/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.Override(config.AppConfig{JWTSecret: "round-trip"})

	token, err := GenerateToken(42, "leo", time.Hour)
	require.NoError(t, err)
	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "leo", claims.Username)

	again, err := GenerateToken(42, "leo", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, token, again)
}

func TestParseTokenRejects(t *testing.T) {
	config.Override(config.AppConfig{JWTSecret: "first"})
	expired, err := GenerateToken(1, "leo", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired)
	assert.Error(t, err)

	anonymous, err := GenerateToken(0, "", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(anonymous)
	assert.Error(t, err)

	signed, err := GenerateToken(1, "leo", time.Hour)
	require.NoError(t, err)
	config.Override(config.AppConfig{JWTSecret: "second"})
	_, err = ParseToken(signed)
	assert.Error(t, err)
}

func TestBlacklistFallback(t *testing.T) {
	UseRedis(nil)
	BlacklistToken("tok-a", time.Now().Add(time.Hour))
	BlacklistToken("tok-b", time.Now().Add(-time.Hour))
	assert.True(t, IsTokenBlacklisted("tok-a"))
	assert.False(t, IsTokenBlacklisted("tok-b"))
	assert.False(t, IsTokenBlacklisted("tok-c"))
}
