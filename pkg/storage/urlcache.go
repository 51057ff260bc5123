package storage

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const urlCachePrefix = "media_vault:url:"

// URLCache memoizes presigned URLs keyed by object key. Entries are cached
// for strictly less time than the signature stays valid, so a hit can never
// serve an expired URL. When a Redis client is supplied the cache is shared
// across instances; otherwise a process-local map is used.
type URLCache struct {
	redis *redis.Client
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]urlEntry
}

type urlEntry struct {
	url       string
	expiresAt time.Time
}

// NewURLCache creates a URLCache with the given entry TTL. client may be nil.
func NewURLCache(client *redis.Client, ttl time.Duration) *URLCache {
	if ttl <= 0 {
		ttl = 50 * time.Minute
	}
	return &URLCache{
		redis:   client,
		ttl:     ttl,
		entries: make(map[string]urlEntry),
	}
}

// Get returns the cached URL for key, if present and fresh.
func (c *URLCache) Get(ctx context.Context, key string) (string, bool) {
	if c.redis != nil {
		url, err := c.redis.Get(ctx, urlCachePrefix+key).Result()
		if err == nil && url != "" {
			return url, true
		}
		return "", false
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.url, true
}

// Set stores the URL for key. Redis failures are ignored: the cache is a pure
// memoization and the caller already holds a valid URL.
func (c *URLCache) Set(ctx context.Context, key, url string) {
	if c.redis != nil {
		_ = c.redis.Set(ctx, urlCachePrefix+key, url, c.ttl).Err()
		return
	}

	c.mu.Lock()
	c.entries[key] = urlEntry{url: url, expiresAt: time.Now().Add(c.ttl)}
	if len(c.entries) > 4096 {
		c.pruneLocked()
	}
	c.mu.Unlock()
}

// Invalidate drops the entry for key, used after the backing object moves or
// is deleted.
func (c *URLCache) Invalidate(ctx context.Context, key string) {
	if c.redis != nil {
		_ = c.redis.Del(ctx, urlCachePrefix+key).Err()
		return
	}
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *URLCache) pruneLocked() {
	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}
