// README: Cache-aside layer for list queries, backed by Redis.
//
// List results are cached under a version-stamped key namespace: every
// trip or GPS write bumps the version counter, which orphans all list
// entries at once instead of tracking per-filter keys. Orphaned entries
// age out via their TTL, so readers may observe results up to ListTTL
// stale. Cache failures degrade to misses and are never surfaced to
// callers.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ListTTL is the fixed expiry for cached list results and the staleness
// tolerance of the contract.
const ListTTL = 60 * time.Second

const versionKey = "trips:ver"

type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// ListKey builds a deterministic key for a list query shape under the
// given namespace version. The query must JSON-marshal deterministically
// (struct, not map).
func ListKey(version int64, query any) string {
	raw, err := json.Marshal(query)
	if err != nil {
		raw = []byte("{}")
	}
	return fmt.Sprintf("trips:list:v%d:%s", version, raw)
}

// Version returns the current list namespace version, 0 when the
// counter does not exist yet or Redis is unreachable.
func (c *Cache) Version(ctx context.Context) int64 {
	v, err := c.rdb.Get(ctx, versionKey).Int64()
	if err != nil {
		return 0
	}
	return v
}

// BumpVersion orphans every cached list entry.
func (c *Cache) BumpVersion(ctx context.Context) {
	if err := c.rdb.Incr(ctx, versionKey).Err(); err != nil {
		// next reads fall through to the store
		return
	}
}

// GetJSON reports whether key was present and, if so, unmarshals the
// cached value into dest.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetJSON stores v under key with the given expiry, best-effort.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, raw, ttl)
}
