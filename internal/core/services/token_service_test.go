package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_GenerateAndValidate(t *testing.T) {
	secret := "super-secret-key-for-testing"
	issuer := "lifecommander-test"
	userID := "user-123-uuid"

	t.Run("Success: Should generate and validate a token", func(t *testing.T) {
		service := NewTokenService(secret, issuer, time.Hour)

		tokenString, err := service.GenerateToken(userID)
		require.NoError(t, err)
		assert.NotEmpty(t, tokenString)

		extractedID, err := service.ValidateToken(tokenString)
		require.NoError(t, err)
		assert.Equal(t, userID, extractedID)
	})

	t.Run("Fail: Should reject expired token", func(t *testing.T) {
		service := NewTokenService(secret, issuer, -time.Second)

		tokenString, err := service.GenerateToken(userID)
		require.NoError(t, err)

		extractedID, err := service.ValidateToken(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
		assert.Empty(t, extractedID)
	})

	t.Run("Fail: Should reject token with wrong secret (Tampered)", func(t *testing.T) {
		tokenString, _ := NewTokenService(secret, issuer, time.Hour).GenerateToken(userID)

		extractedID, err := NewTokenService("wrong-key", issuer, time.Hour).ValidateToken(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
		assert.Empty(t, extractedID)
	})

	t.Run("Fail: Should reject token with wrong issuer", func(t *testing.T) {
		tokenString, _ := NewTokenService(secret, "correct-issuer", time.Hour).GenerateToken(userID)

		extractedID, err := NewTokenService(secret, "wrong-issuer", time.Hour).ValidateToken(tokenString)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
		assert.Empty(t, extractedID)
	})

	t.Run("Fail: Should reject 'None' algorithm attack", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": userID,
			"iss": issuer,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		fakeTokenString, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)

		_, err := NewTokenService(secret, issuer, time.Hour).ValidateToken(fakeTokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Fail: Should reject token without subject", func(t *testing.T) {
		tokenString, _ := NewTokenService(secret, issuer, time.Hour).GenerateToken("")

		_, err := NewTokenService(secret, issuer, time.Hour).ValidateToken(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Fail: Should reject malformed token string", func(t *testing.T) {
		extractedID, err := NewTokenService(secret, issuer, time.Hour).ValidateToken("this-is-not-a-jwt")

		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Empty(t, extractedID)
	})
}
