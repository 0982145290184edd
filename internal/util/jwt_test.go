package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("editor@example.com", RoleAdmin, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "editor@example.com", claims.Subject)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT("x", RoleAdmin, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 20, ParseLimit("", 20, 100))
	assert.Equal(t, 20, ParseLimit("-3", 20, 100))
	assert.Equal(t, 5, ParseLimit("5", 20, 100))
	assert.Equal(t, 100, ParseLimit("500", 20, 100))
}
