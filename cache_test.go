package ipx

import (
	"testing"
	"time"

	"github.com/rickb777/expect"
)

func TestCacheKey_deterministic(t *testing.T) {
	k1, err := cacheKey("/cat.jpg", Modifiers{"w": "100", "h": "50"})
	expect.Error(err).Not().ToHaveOccurred(t)

	k2, err := cacheKey("/cat.jpg", Modifiers{"h": "50", "w": "100"})
	expect.Error(err).Not().ToHaveOccurred(t)

	expect.String(k1).ToBe(t, k2)
}

func TestCacheKey_differsByModifiers(t *testing.T) {
	k1, _ := cacheKey("/cat.jpg", Modifiers{"w": "100"})
	k2, _ := cacheKey("/cat.jpg", Modifiers{"w": "200"})
	expect.Any(k1 == k2).ToBe(t, false)
}

func TestMemoryCache_getSet(t *testing.T) {
	cache, err := NewMemoryCache(4)
	expect.Error(err).Not().ToHaveOccurred(t)

	_, ok := cache.Get("missing")
	expect.Any(ok).ToBe(t, false)

	entry := &CacheEntry{Data: []byte("hi"), Format: "jpeg", Timestamp: time.Now(), Expiry: 60}
	cache.Set("k", entry, 60*time.Second)

	got, ok := cache.Get("k")
	expect.Any(ok).ToBe(t, true)
	expect.String(string(got.Data)).ToBe(t, "hi")
	expect.String(got.Format).ToBe(t, "jpeg")
}

func TestMemoryCache_expiredEntryIsMiss(t *testing.T) {
	cache, err := NewMemoryCache(4)
	expect.Error(err).Not().ToHaveOccurred(t)

	entry := &CacheEntry{
		Data:      []byte("hi"),
		Format:    "jpeg",
		Timestamp: time.Now().Add(-time.Hour),
		Expiry:    1,
	}
	cache.Set("k", entry, time.Second)

	_, ok := cache.Get("k")
	expect.Any(ok).ToBe(t, false)
}
