package domain

import "time"

// CacheEntry stores one cached provider answer, addressed by fingerprint.
// At most one entry exists per key; Set overwrites (last-write-wins).
type CacheEntry struct {
	Key       string    `json:"key"`
	Model     string    `json:"model"`
	Prompt    string    `json:"prompt"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// CacheConfiguration reports the effective bounds of a cache store.
type CacheConfiguration struct {
	Backend    string
	TTL        time.Duration
	MaxEntries int
}
