package ipx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a distributed result cache backend for deployments that
// run more than one ipx process against the same origin.
type RedisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisCache builds a RedisCache against a single Redis instance at
// addr. defaultTTL is used only when Set is called with a zero ttl (e.g. a
// source that reported no maxAge); the common path is driven per-call by
// the source's own maxAge, since an HTTP origin's Cache-Control can vary
// request to request.
func NewRedisCache(addr string, defaultTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: addr}),
		defaultTTL: defaultTTL,
	}
}

var _ Cache = (*RedisCache)(nil)

// Get implements Cache. Any error (including a miss) is treated as "not
// cached" rather than surfaced, matching the teacher's best-effort cache
// posture: a cache failure degrades to a render, it never fails a request.
func (r *RedisCache) Get(key string) (*CacheEntry, bool) {
	raw, err := r.client.Get(context.Background(), key).Bytes()
	if err != nil {
		return nil, false
	}
	var entry CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	return &entry, true
}

// Set implements Cache. Errors are swallowed for the same reason: caching
// is an optimization, not a correctness requirement. ttl is applied as
// Redis's own native per-key expiry, falling back to defaultTTL when the
// source reported no maxAge.
func (r *RedisCache) Set(key string, entry *CacheEntry, ttl time.Duration) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	r.client.Set(context.Background(), key, raw, ttl)
}
