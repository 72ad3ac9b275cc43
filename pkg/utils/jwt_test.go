package utils

import (
	"testing"
	"time"

	"svu_forum/internal/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSecret(t *testing.T, secret string) {
	t.Helper()
	old := config.GlobalConfig
	config.GlobalConfig.JWT.Secret = secret
	config.GlobalConfig.JWT.Expire = 1
	t.Cleanup(func() { config.GlobalConfig = old })
}

func TestTokenRoundTrip(t *testing.T) {
	withSecret(t, "0123456789abcdef0123456789abcdef")

	token, exp, err := GenerateToken("alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *exp, time.Minute)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestParseTokenRejects(t *testing.T) {
	withSecret(t, "0123456789abcdef0123456789abcdef")

	t.Run("Wrong secret", func(t *testing.T) {
		token, _, err := GenerateToken("alice")
		require.NoError(t, err)

		config.GlobalConfig.JWT.Secret = "another-secret-another-secret-xx"
		_, err = ParseToken(token)
		assert.Error(t, err)
		config.GlobalConfig.JWT.Secret = "0123456789abcdef0123456789abcdef"
	})

	t.Run("Expired", func(t *testing.T) {
		claims := Claims{
			Username: "alice",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				Issuer:    tokenIssuer,
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte(config.GlobalConfig.JWT.Secret))
		require.NoError(t, err)

		_, err = ParseToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := ParseToken("not.a.token")
		assert.Error(t, err)
	})
}

func TestPagination(t *testing.T) {
	offset, limit := (&Pagination{}).GetPageOffset()
	assert.Equal(t, 0, offset)
	assert.Equal(t, 10, limit)

	offset, limit = (&Pagination{Page: 3, Limit: 500}).GetPageOffset()
	assert.Equal(t, 200, offset)
	assert.Equal(t, 100, limit)
}
