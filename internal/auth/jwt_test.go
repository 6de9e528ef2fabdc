package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestDecodeClaims(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"userId":   float64(99),
		"username": "maria",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	claims, err := DecodeClaims(token)

	require.NoError(t, err)
	assert.Equal(t, int64(99), claims.UserID)
	assert.Equal(t, "maria", claims.Username)
}

func TestDecodeClaims_Expired(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"userId": float64(99),
		"exp":    time.Now().Add(-time.Hour).Unix(),
	})

	_, err := DecodeClaims(token)

	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestDecodeClaims_Garbage(t *testing.T) {
	_, err := DecodeClaims("not.a.jwt")

	assert.Error(t, err)
}

func TestUserIDFromToken_UserIDClaim(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"userId": float64(7),
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	id, err := UserIDFromToken(token)

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestUserIDFromToken_NumericSubjectFallback(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub": "15",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	id, err := UserIDFromToken(token)

	require.NoError(t, err)
	assert.Equal(t, int64(15), id)
}

func TestUserIDFromToken_NoUsableClaim(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub": "not-numeric",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := UserIDFromToken(token)

	assert.Error(t, err)
}
