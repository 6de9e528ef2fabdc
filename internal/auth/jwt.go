package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired means the backend JWT's exp claim is in the past.
var ErrTokenExpired = errors.New("auth: token expired")

// Claims is the subset of backend JWT claims the client cares about.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// DecodeClaims parses a backend JWT without verifying its signature. The
// backend is the signing authority; the client only needs the claims to know
// who is logged in and when the session lapses.
func DecodeClaims(token string) (*Claims, error) {
	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}
	return &claims, nil
}

// UserIDFromToken extracts the user id, trying the userId claim first and
// falling back to a numeric subject.
func UserIDFromToken(token string) (int64, error) {
	claims, err := DecodeClaims(token)
	if err != nil {
		return 0, err
	}
	if claims.UserID != 0 {
		return claims.UserID, nil
	}
	var id int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &id); err != nil {
		return 0, fmt.Errorf("no user id in token claims")
	}
	return id, nil
}
