// Package sectors fetches and holds the sector list: polygon geometry plus
// aggregate power status per zone. Each map load gets an immutable snapshot;
// a short-TTL Redis cache keeps bursts of loads off the backend.
package sectors

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"apagon-map/internal/cache"
	"apagon-map/internal/models"
)

// Store serves sector snapshots, fronting the backend with a shared cache.
type Store struct {
	client *Client
	cache  *cache.Cache
	ttl    time.Duration
}

// NewStore wraps a client with a snapshot cache. cache may be nil, in which
// case every snapshot hits the backend.
func NewStore(client *Client, c *cache.Cache, ttl time.Duration) *Store {
	return &Store{client: client, cache: c, ttl: ttl}
}

// Snapshot returns the current sector list. Cached snapshots are already
// normalized; fresh fetches are normalized by the client before caching.
func (s *Store) Snapshot(ctx context.Context, token string) ([]models.Sector, error) {
	if s.cache != nil {
		if data, err := s.cache.GetSectorSnapshot(ctx); err == nil {
			var sectors []models.Sector
			if err := json.Unmarshal(data, &sectors); err == nil {
				return sectors, nil
			}
			// Corrupt cache entry: fall through to a fresh fetch.
		} else if !errors.Is(err, cache.ErrNotFound) {
			log.Printf("[sectors] cache read failed: %v", err)
		}
	}

	sectors, err := s.client.GetSectors(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(sectors); err == nil {
			if err := s.cache.SetSectorSnapshot(ctx, data, s.ttl); err != nil {
				log.Printf("[sectors] cache write failed: %v", err)
			}
		}
	}
	return sectors, nil
}
