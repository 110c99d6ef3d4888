package ipx

import (
	"encoding/json"
	"time"
)

// CacheEntry is the materialized, already-encoded result of one engine
// request, keyed by id and modifiers. Timestamp and Expiry (seconds, taken
// from the source's maxAge at write time) together bound the entry's
// validity: a backend with no native per-key TTL support must consult them
// itself on Get instead of serving a stale entry forever.
type CacheEntry struct {
	Data      []byte
	Format    string
	Meta      Meta
	Timestamp time.Time
	Expiry    int
}

// Expired reports whether e's Expiry window has elapsed since Timestamp.
// An Expiry of zero never expires.
func (e *CacheEntry) Expired() bool {
	if e.Expiry <= 0 {
		return false
	}
	return time.Since(e.Timestamp) > time.Duration(e.Expiry)*time.Second
}

// Cache is the pluggable result cache. Implementations need not be
// strongly consistent: a miss simply costs a re-render. ttl, when non-zero,
// is the source's own maxAge at write time and should govern any backend
// with native per-key expiry (e.g. Redis); it may differ per call, since an
// HTTP origin's Cache-Control can vary request to request.
type Cache interface {
	Get(key string) (*CacheEntry, bool)
	Set(key string, entry *CacheEntry, ttl time.Duration)
}

// cacheKey derives the cache key for one request as the JSON encoding of
// the id together with every modifier, matching the {id, ...modifiers}
// shape. encoding/json sorts map keys alphabetically, so the key is
// deterministic regardless of modifier decoding order.
func cacheKey(id string, modifiers Modifiers) (string, error) {
	payload := make(map[string]string, len(modifiers)+1)
	payload["id"] = id
	for k, v := range modifiers {
		payload[k] = v
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
