package blog

import (
	"context"
	"sync"
	"time"
)

// ContentCache is an in-memory cache of fetched post content with TTL.
// Failed fetches are not cached. Returned slices are shared and must not be
// modified.
type ContentCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	src     ContentSource
	now     func() time.Time

	// onFetch, when set, is told whether each successful Fetch was a hit.
	onFetch func(contentPath string, size int, hit bool)
}

type cacheEntry struct {
	data    []byte
	fetched time.Time
}

// NewContentCache creates a ContentCache in front of src. A ttl <= 0 turns
// the cache into a pass-through.
func NewContentCache(src ContentSource, ttl time.Duration) *ContentCache {
	return &ContentCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		src:     src,
		now:     time.Now,
	}
}

func (c *ContentCache) valid(e cacheEntry) bool {
	return c.now().Sub(e.fetched) < c.ttl
}

// Fetch returns cached content when fresh, otherwise fetches from the
// source. The source is called without holding the lock.
func (c *ContentCache) Fetch(ctx context.Context, contentPath string) ([]byte, error) {
	if c.ttl > 0 {
		c.mu.RLock()
		e, ok := c.entries[contentPath]
		c.mu.RUnlock()
		if ok && c.valid(e) {
			c.report(contentPath, len(e.data), true)
			return e.data, nil
		}
	}

	data, err := c.src.Fetch(ctx, contentPath)
	if err != nil {
		return nil, err
	}
	c.report(contentPath, len(data), false)
	if c.ttl <= 0 {
		return data, nil
	}

	c.mu.Lock()
	c.entries[contentPath] = cacheEntry{data: data, fetched: c.now()}
	c.mu.Unlock()
	return data, nil
}

func (c *ContentCache) report(contentPath string, size int, hit bool) {
	if c.onFetch != nil {
		c.onFetch(contentPath, size, hit)
	}
}

// Invalidate clears the cache so the next read triggers a fresh fetch.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of cached documents, fresh or stale.
func (c *ContentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
