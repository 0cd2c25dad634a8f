package security_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"zanonyme_go/internal/security"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func TestTokenVerifier(t *testing.T) {
	verifier := security.NewTokenVerifier("secret")

	t.Run("Valid", func(t *testing.T) {
		tokenStr := signToken(t, "secret", jwt.MapClaims{
			"sub":     "uid-1",
			"email":   "john@example.com",
			"name":    "John",
			"picture": "https://example.com/a.png",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})

		claims, err := verifier.Verify(tokenStr)
		assert.NoError(t, err)
		assert.Equal(t, "uid-1", claims.Subject)
		assert.Equal(t, "john@example.com", claims.Email)
		assert.Equal(t, "John", claims.Name)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		tokenStr := signToken(t, "other", jwt.MapClaims{"sub": "uid-1"})
		_, err := verifier.Verify(tokenStr)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		tokenStr := signToken(t, "secret", jwt.MapClaims{
			"sub": "uid-1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		_, err := verifier.Verify(tokenStr)
		assert.Error(t, err)
	})

	t.Run("MissingSubject", func(t *testing.T) {
		tokenStr := signToken(t, "secret", jwt.MapClaims{"email": "x@example.com"})
		_, err := verifier.Verify(tokenStr)
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := verifier.Verify("not-a-token")
		assert.Error(t, err)
	})
}
