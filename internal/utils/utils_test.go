package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomalink/bomalink/internal/models"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	token, exp, err := GenerateToken("user-1", "a@b.com", models.RoleSeller, "secret", "15m")
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	claims, err := VerifyToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, models.RoleSeller, claims.Role)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, _, err := GenerateToken("user-1", "a@b.com", models.RoleBuyer, "secret", "15m")
	require.NoError(t, err)

	_, err = VerifyToken(token, "other-secret")
	assert.Error(t, err)
}

func TestVerifyToken_Expired(t *testing.T) {
	token, _, err := GenerateToken("user-1", "a@b.com", models.RoleBuyer, "secret", "1s")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	_, err = VerifyToken(token, "secret")
	assert.Error(t, err)
}

func TestGenerateToken_MissingSecret(t *testing.T) {
	_, _, err := GenerateToken("user-1", "a@b.com", models.RoleBuyer, "", "15m")
	assert.Error(t, err)
}

func TestParseTTL(t *testing.T) {
	for in, want := range map[string]time.Duration{
		"":      15 * time.Minute,
		"30":    30 * time.Minute,
		"45m":   45 * time.Minute,
		"2h":    2 * time.Hour,
		"20s":   20 * time.Second,
		"720h0m0s": 720 * time.Hour,
	} {
		got, err := parseTTL(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseTTL("not-a-ttl")
	assert.Error(t, err)
}
