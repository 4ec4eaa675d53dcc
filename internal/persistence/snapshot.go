package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSnapshotMiss is returned when no cached snapshot exists.
var ErrSnapshotMiss = errors.New("snapshot not cached")

// SnapshotCache persists store collections between restarts. It is a
// pure cache: the database stays the source of truth, and a miss or a
// stale entry is never an error for the caller.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache returns a Redis-backed snapshot cache.
func NewSnapshotCache(r *Redis, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: r.Client, ttl: ttl}
}

func snapshotKey(name string) string {
	return "snapshot:" + name
}

// Save serializes the collection under the store's name.
func (c *SnapshotCache) Save(ctx context.Context, name string, collection any) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(collection)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey(name), payload, c.ttl).Err()
}

// Load deserializes a cached collection into dest.
func (c *SnapshotCache) Load(ctx context.Context, name string, dest any) error {
	if c == nil || c.client == nil {
		return ErrSnapshotMiss
	}
	payload, err := c.client.Get(ctx, snapshotKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrSnapshotMiss
		}
		return err
	}
	return json.Unmarshal(payload, dest)
}
