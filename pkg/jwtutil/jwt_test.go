package jwtutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-service/pkg/config"
)

func TestValidateToken(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	t.Run("round trip", func(t *testing.T) {
		token, err := GenerateToken("alice", 7, "admin")
		require.NoError(t, err)

		claims, err := ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, uint(7), claims.UserID)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("rejects non-HMAC signing method", func(t *testing.T) {
		claims := UserClaims{
			Username: "mallory",
			UserID:   1,
			Role:     "admin",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("rejects token signed with another key", func(t *testing.T) {
		claims := UserClaims{
			Username: "mallory",
			UserID:   1,
			Role:     "admin",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte("other-key"))
		require.NoError(t, err)

		_, err = ValidateToken(forged)
		assert.Error(t, err)
	})
}
