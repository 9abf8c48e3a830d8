// Package cache provides Redis-backed caches for expensive outbound lookups.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eunsilJANG/EasyGo/internal/domain"
)

// GeocodeCache memoizes resolved coordinates per address in Redis, so
// repeated course saves do not re-hit the geocoding provider.
type GeocodeCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewGeocodeCache constructs a Redis-backed geocode cache.
func NewGeocodeCache(client redis.UniversalClient, ttl time.Duration) *GeocodeCache {
	return &GeocodeCache{client: client, ttl: ttl}
}

func geocodeKey(address string) string {
	return "geocode:" + address
}

// Get loads a cached coordinate. A miss returns (nil, nil).
func (c *GeocodeCache) Get(ctx context.Context, address string) (*domain.Coordinate, error) {
	bytes, err := c.client.Get(ctx, geocodeKey(address)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load coordinate: %w", err)
	}
	var coord domain.Coordinate
	if err := json.Unmarshal(bytes, &coord); err != nil {
		return nil, fmt.Errorf("decode coordinate: %w", err)
	}
	return &coord, nil
}

// Set stores a resolved coordinate with the configured TTL.
func (c *GeocodeCache) Set(ctx context.Context, address string, coord domain.Coordinate) error {
	payload, err := json.Marshal(coord)
	if err != nil {
		return fmt.Errorf("marshal coordinate: %w", err)
	}
	if err := c.client.Set(ctx, geocodeKey(address), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("persist coordinate: %w", err)
	}
	return nil
}
