package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("s3cret")

	token, issued, err := GenerateJWT(secret, 12, "a@b.fi", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := ParseJWT(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.fi", claims.Email)
	assert.Equal(t, issued.ID, claims.ID)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)
}

func TestParseJWTRejects(t *testing.T) {
	token, _, err := GenerateJWT([]byte("one"), 1, "a@b.fi", time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT([]byte("two"), token)
	assert.Error(t, err)

	expired, _, err := GenerateJWT([]byte("one"), 1, "a@b.fi", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT([]byte("one"), expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, _, err = GenerateJWT(nil, 1, "a@b.fi", time.Hour)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("hunter2", hash))
	assert.False(t, CheckPasswordHash("hunter3", hash))
}

func TestGenerateRandomToken(t *testing.T) {
	a, err := GenerateRandomToken(6)
	require.NoError(t, err)
	assert.Len(t, a, 6)
	for _, c := range a {
		assert.Contains(t, tokenCharset, string(c))
	}
}
