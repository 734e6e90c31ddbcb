package cache

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/amirasaad/bankdemo/pkg/cache"
	"github.com/amirasaad/bankdemo/pkg/currency"
)

// MemoryCache implements cache.RateTableCache in process memory.
// Expired entries are dropped on access.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	table     currency.RateTable
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get retrieves a table from cache
func (c *MemoryCache) Get(_ context.Context, key string) (currency.RateTable, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		if current, still := c.entries[key]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return maps.Clone(entry.table), true, nil
}

// Set stores a table with TTL
func (c *MemoryCache) Set(_ context.Context, key string, table currency.RateTable, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		table:     maps.Clone(table),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

var _ cache.RateTableCache = (*MemoryCache)(nil)
