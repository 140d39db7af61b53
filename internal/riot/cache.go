package riot

import (
	"sync"
	"time"
)

// responseCache is a write-once/read-many URL cache with a short TTL.
// Entries are whole response bodies; there are no compound updates, so a
// plain RWMutex is enough.
type responseCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	body    []byte
	expires time.Time
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

func (c *responseCache) get(url string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[url]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.body, true
}

func (c *responseCache) put(url string, body []byte) {
	c.mu.Lock()
	c.entries[url] = cacheEntry{body: body, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *responseCache) clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
