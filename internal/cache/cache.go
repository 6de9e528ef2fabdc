package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sectorSnapshotKey = "sectors:snapshot"
	commandPrefix     = "bridge:cmd:"
	sessionPrefix     = "session:"

	// commandQueueTTL bounds how long undelivered map commands survive. A
	// viewer that navigated away never polls again, so the queue must expire
	// on its own instead of relying on explicit cancellation.
	commandQueueTTL = 5 * time.Minute
)

// ErrNotFound is returned when a key has no value (or it expired).
var ErrNotFound = errors.New("cache: not found")

type Cache struct {
	Client *redis.Client
}

func New(redisURL string) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Cache{Client: client}, nil
}

func (c *Cache) Close() error {
	return c.Client.Close()
}

// ── Sector snapshot ──────────────────────────────────────────────────

// SetSectorSnapshot stores the serialized sector list for ttl. This is a
// shared render cache so a burst of map loads doesn't hammer the backend.
func (c *Cache) SetSectorSnapshot(ctx context.Context, data []byte, ttl time.Duration) error {
	return c.Client.Set(ctx, sectorSnapshotKey, data, ttl).Err()
}

// GetSectorSnapshot returns the cached sector list, or ErrNotFound.
func (c *Cache) GetSectorSnapshot(ctx context.Context) ([]byte, error) {
	data, err := c.Client.Get(ctx, sectorSnapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

// ── Bridge command queue ─────────────────────────────────────────────

// PushCommand appends a serialized map command to a session's queue.
func (c *Cache) PushCommand(ctx context.Context, sessionID string, data []byte) error {
	key := commandPrefix + sessionID
	if err := c.Client.RPush(ctx, key, data).Err(); err != nil {
		return err
	}
	return c.Client.Expire(ctx, key, commandQueueTTL).Err()
}

// PopCommands drains a session's command queue. Each command is delivered at
// most once; a second poll after a drain returns nothing.
func (c *Cache) PopCommands(ctx context.Context, sessionID string) ([][]byte, error) {
	key := commandPrefix + sessionID

	pipe := c.Client.TxPipeline()
	lrange := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	vals := lrange.Val()
	out := make([][]byte, 0, len(vals))
	for _, v := range vals {
		out = append(out, []byte(v))
	}
	return out, nil
}

// ── Sessions ─────────────────────────────────────────────────────────

// SetSession stores the backend JWT for a browser session.
func (c *Cache) SetSession(ctx context.Context, sessionID, token string, ttl time.Duration) error {
	return c.Client.Set(ctx, sessionPrefix+sessionID, token, ttl).Err()
}

// GetSession returns the backend JWT for a session, or ErrNotFound.
func (c *Cache) GetSession(ctx context.Context, sessionID string) (string, error) {
	token, err := c.Client.Get(ctx, sessionPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return token, err
}

// DeleteSession removes a session (logout).
func (c *Cache) DeleteSession(ctx context.Context, sessionID string) error {
	return c.Client.Del(ctx, sessionPrefix+sessionID).Err()
}
