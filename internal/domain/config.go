package domain

// Config mirrors ~/.askai/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Preferences         Preferences       `yaml:"preferences"`
	Models              []ModelDefinition `yaml:"models"`
	Cache               CacheSettings     `yaml:"cache"`
	Ledger              LedgerSettings    `yaml:"ledger"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultModel   string   `yaml:"default_model"`
	FallbackModels []string `yaml:"fallback_models"`
	TimeoutSeconds int      `yaml:"timeout"`
}

// CacheSettings configures the response cache.
type CacheSettings struct {
	// Backend selects the cache implementation: memory (default), ristretto, file.
	Backend string `yaml:"backend"`
	// Normalize selects the fingerprint normalization policy: none (default), trim, fold.
	Normalize string `yaml:"normalize"`
	// TTL is a duration string (e.g. "1h"); empty or "0" disables expiry.
	TTL string `yaml:"ttl"`
	// MaxEntries bounds the memory/file backends; 0 means unbounded.
	MaxEntries int `yaml:"max_entries"`
	// MaxCostBytes bounds the ristretto backend by total value size.
	MaxCostBytes int64 `yaml:"max_cost_bytes"`
}

// LedgerSettings configures usage persistence.
type LedgerSettings struct {
	// Backend selects the ledger implementation: memory (default), sqlite, file.
	Backend string `yaml:"backend"`
	// AutoExport, when set, writes the session JSON document to this path on exit.
	AutoExport string `yaml:"auto_export"`
}

// Cache backend names.
const (
	CacheBackendMemory    = "memory"
	CacheBackendRistretto = "ristretto"
	CacheBackendFile      = "file"
)

// Ledger backend names.
const (
	LedgerBackendMemory = "memory"
	LedgerBackendSQLite = "sqlite"
	LedgerBackendFile   = "file"
)
