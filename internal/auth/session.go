package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"apagon-map/internal/cache"
)

// SessionCookie is the browser cookie carrying the session id.
const SessionCookie = "apagon_session"

// Sessions maps browser session ids to backend JWTs in Redis.
type Sessions struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewSessions(c *cache.Cache, ttl time.Duration) *Sessions {
	return &Sessions{cache: c, ttl: ttl}
}

// Create stores a token under a fresh session id and returns the id.
func (s *Sessions) Create(ctx context.Context, token string) (string, error) {
	id := uuid.NewString()
	if err := s.cache.SetSession(ctx, id, token, s.ttl); err != nil {
		return "", err
	}
	return id, nil
}

// Token resolves a session id to its backend JWT. Expired tokens are treated
// as a missing session so the caller re-authenticates.
func (s *Sessions) Token(ctx context.Context, sessionID string) (string, error) {
	token, err := s.cache.GetSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if _, err := DecodeClaims(token); err != nil {
		_ = s.cache.DeleteSession(ctx, sessionID)
		return "", cache.ErrNotFound
	}
	return token, nil
}

// Destroy drops a session (logout).
func (s *Sessions) Destroy(ctx context.Context, sessionID string) error {
	return s.cache.DeleteSession(ctx, sessionID)
}
