package location

import (
	"sync"
	"time"

	"rollcall/models"
)

// Cache is an in-memory TTL cache for resolved geolocations, keyed by IP
// address. It is constructed explicitly and handed to the Resolver so
// tests can substitute a fake clock; there is no package-level instance.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	geo       *models.IPGeolocation
	expiresAt time.Time
}

// NewCache creates a cache whose entries expire ttl after insertion.
func NewCache(ttl time.Duration) *Cache {
	return NewCacheWithClock(ttl, time.Now)
}

// NewCacheWithClock creates a cache with an injected clock.
func NewCacheWithClock(ttl time.Duration, now func() time.Time) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached geolocation for ip, if present and unexpired.
func (c *Cache) Get(ip string) (*models.IPGeolocation, bool) {
	c.mu.RLock()
	entry, ok := c.entries[ip]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, ip)
		c.mu.Unlock()
		return nil, false
	}
	return entry.geo, true
}

// Set stores geo under ip with a fresh expiry. Concurrent writers for the
// same address race harmlessly; last writer wins.
func (c *Cache) Set(ip string, geo *models.IPGeolocation) {
	c.mu.Lock()
	c.entries[ip] = cacheEntry{geo: geo, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Len returns the number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
