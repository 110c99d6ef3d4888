package ipx

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryCache is an in-process, bounded LRU result cache: the default
// backend when no distributed cache is configured.
type MemoryCache struct {
	lru *lru.Cache[string, *CacheEntry]
}

// NewMemoryCache builds a MemoryCache holding at most size entries.
func NewMemoryCache(size int) (*MemoryCache, error) {
	c, err := lru.New[string, *CacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{lru: c}, nil
}

var _ Cache = (*MemoryCache)(nil)

// Get implements Cache. golang-lru has no native per-key TTL, so an entry
// past its own Expiry window is evicted and reported as a miss here rather
// than served indefinitely.
func (m *MemoryCache) Get(key string) (*CacheEntry, bool) {
	entry, ok := m.lru.Get(key)
	if !ok {
		return nil, false
	}
	if entry.Expired() {
		m.lru.Remove(key)
		return nil, false
	}
	return entry, true
}

// Set implements Cache. ttl is ignored: expiry is enforced lazily on Get
// against the entry's own Timestamp/Expiry fields instead.
func (m *MemoryCache) Set(key string, entry *CacheEntry, ttl time.Duration) {
	m.lru.Add(key, entry)
}
