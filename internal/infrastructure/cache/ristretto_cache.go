package cache

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/ports"
)

// RistrettoCache is the bounded in-process backend, sized by total value
// bytes instead of entry count. Eviction is delegated to ristretto's
// admission policy, so Entries reflects keys that survived admission.
type RistrettoCache struct {
	c   *ristretto.Cache[string, []byte]
	ttl time.Duration

	// ristretto has no key iteration; track live keys for Entries/Clear.
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewRistrettoCache builds a ristretto-backed cache bounded by maxCostBytes.
func NewRistrettoCache(maxCostBytes int64, ttl time.Duration) (*RistrettoCache, error) {
	if maxCostBytes <= 0 {
		maxCostBytes = domain.DefaultCacheMaxCostBytes
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCostBytes / 100 * 10, // ~10x expected items
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &RistrettoCache{
		c:    c,
		ttl:  ttl,
		keys: make(map[string]struct{}),
	}, nil
}

// Get retrieves a cache entry.
func (c *RistrettoCache) Get(key string) (domain.CacheEntry, bool, error) {
	if key == "" {
		return domain.CacheEntry{}, false, nil
	}
	data, found := c.c.Get(key)
	if !found {
		return domain.CacheEntry{}, false, nil
	}
	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return domain.CacheEntry{}, false, err
	}
	return entry, true, nil
}

// Set stores a cache entry; cost is the serialized entry size.
func (c *RistrettoCache) Set(entry domain.CacheEntry) error {
	if entry.Key == "" {
		return nil
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	c.c.SetWithTTL(entry.Key, data, int64(len(data)), c.ttl)
	c.c.Wait()
	c.mu.Lock()
	c.keys[entry.Key] = struct{}{}
	c.mu.Unlock()
	return nil
}

// Entries lists entries still admitted by the cache, oldest first.
func (c *RistrettoCache) Entries() ([]domain.CacheEntry, error) {
	c.mu.Lock()
	keys := make([]string, 0, len(c.keys))
	for key := range c.keys {
		keys = append(keys, key)
	}
	c.mu.Unlock()

	var entries []domain.CacheEntry
	for _, key := range keys {
		entry, ok, err := c.Get(key)
		if err != nil || !ok {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) })
	return entries, nil
}

// Clear drops every entry.
func (c *RistrettoCache) Clear() error {
	c.c.Clear()
	c.mu.Lock()
	c.keys = make(map[string]struct{})
	c.mu.Unlock()
	return nil
}

// Settings reports the effective bounds.
func (c *RistrettoCache) Settings() domain.CacheConfiguration {
	return domain.CacheConfiguration{
		Backend: domain.CacheBackendRistretto,
		TTL:     c.ttl,
	}
}

// Close releases ristretto resources.
func (c *RistrettoCache) Close() {
	c.c.Close()
}

var _ ports.CacheRepository = (*RistrettoCache)(nil)
