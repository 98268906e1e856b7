// Package cache provides the response cache backends. Every backend keeps at
// most one entry per fingerprint; Set is last-write-wins.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/ports"
)

// MemoryCache is the default in-process store: a mutex-guarded map with
// optional TTL and entry bound. TTL 0 and maxEntries 0 give the unbounded,
// never-evicting behavior of the minimal design.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]domain.CacheEntry
	maxEntries int
	ttl        time.Duration
}

// NewMemoryCache builds a memory cache with the given bounds.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]domain.CacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// Get retrieves a cache entry. Expired entries are dropped on read.
func (c *MemoryCache) Get(key string) (domain.CacheEntry, bool, error) {
	if key == "" {
		return domain.CacheEntry{}, false, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return domain.CacheEntry{}, false, nil
	}
	if c.ttl > 0 && time.Since(entry.CreatedAt) > c.ttl {
		delete(c.entries, key)
		return domain.CacheEntry{}, false, nil
	}
	return entry, true, nil
}

// Set stores a cache entry, overwriting any prior entry for the key.
func (c *MemoryCache) Set(entry domain.CacheEntry) error {
	if entry.Key == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.Key] = entry
	c.evictIfNeeded()
	return nil
}

// Entries lists cache entries sorted oldest first.
func (c *MemoryCache) Entries() ([]domain.CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.CacheEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]domain.CacheEntry)
	return nil
}

// Settings reports the effective bounds.
func (c *MemoryCache) Settings() domain.CacheConfiguration {
	return domain.CacheConfiguration{
		Backend:    domain.CacheBackendMemory,
		TTL:        c.ttl,
		MaxEntries: c.maxEntries,
	}
}

func (c *MemoryCache) evictIfNeeded() {
	if c.maxEntries <= 0 || len(c.entries) <= c.maxEntries {
		return
	}
	type keyed struct {
		key     string
		created time.Time
	}
	infos := make([]keyed, 0, len(c.entries))
	for key, entry := range c.entries {
		infos = append(infos, keyed{key: key, created: entry.CreatedAt})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].created.Before(infos[j].created) })
	for len(c.entries) > c.maxEntries {
		delete(c.entries, infos[0].key)
		infos = infos[1:]
	}
}

var _ ports.CacheRepository = (*MemoryCache)(nil)
