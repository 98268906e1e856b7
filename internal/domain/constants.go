package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultRequestTimeout is the default deadline for one ask request
	DefaultRequestTimeout = 60 * time.Second
	// DefaultHTTPClientTimeout is the timeout for HTTP client requests
	DefaultHTTPClientTimeout = 60 * time.Second
)

// Limit constants
const (
	// DefaultMaxCacheEntries is the maximum number of cache entries
	DefaultMaxCacheEntries = 100
	// DefaultCacheMaxCostBytes bounds the ristretto backend value size
	DefaultCacheMaxCostBytes = 8 << 20
	// DefaultUsageListLimit is the default number of usage records to display
	DefaultUsageListLimit = 20
	// AuditTextLimit is how many characters of prompt/answer text a record keeps
	AuditTextLimit = 120
)

// Model configuration constants
const (
	// DefaultMaxTokens is the default maximum number of generated tokens
	DefaultMaxTokens = 1024
	// DefaultTemperature is the default sampling temperature
	DefaultTemperature = 0.7
	// DefaultTopP is the default nucleus sampling bound
	DefaultTopP = 0.9
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
