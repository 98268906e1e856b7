package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/askai-go/assets"
	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/pkg/filesystem"
	"github.com/doeshing/askai-go/internal/ports"
)

// FileLoader loads YAML configuration from ~/.askai/config.yaml (overridable via ASKAI_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := writeDefault(path); err != nil {
				return domain.Config{}, err
			}
			data = assets.DefaultConfigYAML
		} else {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

// Save persists a configuration back to the resolved path.
func (l *FileLoader) Save(cfg domain.Config) error {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// Path exposes the resolved config path for display.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

// Backup copies the current config aside before a destructive write.
func (l *FileLoader) Backup() (string, error) {
	path := l.resolvePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backupPath := path + ".bak"
	if err := os.WriteFile(backupPath, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backupPath, nil
}

// Reset rewrites the config file from the embedded defaults.
func (l *FileLoader) Reset() (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}
	if err := writeDefault(path); err != nil {
		return domain.Config{}, err
	}
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

// DefaultConfig returns the embedded default configuration after hydration.
func DefaultConfig() domain.Config {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}
	}
	return hydrateDefaults(cfg)
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("ASKAI_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filesystem.AskaiDir("config.yaml")
}

func ensureConfigDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, domain.DirectoryPermissions)
}

func writeDefault(path string) error {
	return os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Preferences.DefaultModel == "" && len(cfg.Models) > 0 {
		cfg.Preferences.DefaultModel = cfg.Models[0].Name
	}
	if cfg.Preferences.TimeoutSeconds == 0 {
		cfg.Preferences.TimeoutSeconds = int(domain.DefaultRequestTimeout.Seconds())
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = domain.CacheBackendMemory
	}
	if cfg.Cache.Normalize == "" {
		cfg.Cache.Normalize = string(domain.NormalizeNone)
	}
	if cfg.Cache.MaxCostBytes == 0 {
		cfg.Cache.MaxCostBytes = domain.DefaultCacheMaxCostBytes
	}
	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = domain.LedgerBackendMemory
	}
	for i := range cfg.Models {
		if cfg.Models[i].Family == domain.FamilyUnknown {
			cfg.Models[i].Family = inferFamily(cfg.Models[i].Endpoint)
		}
		cfg.Models[i].Params = cfg.Models[i].Params.WithDefaults()
	}
	return cfg
}

// inferFamily is a convenience for configs written before the family field
// existed. It keys off the endpoint host, never the model ID; the validator
// rejects models whose family stays unknown.
func inferFamily(endpoint string) domain.ModelFamily {
	switch {
	case strings.Contains(endpoint, "anthropic.com"):
		return domain.FamilyAnthropic
	case strings.Contains(endpoint, "openai.com"):
		return domain.FamilyOpenAI
	case strings.Contains(endpoint, "bedrock"):
		return domain.FamilyNova
	case strings.Contains(endpoint, "11434"), strings.Contains(endpoint, "localhost"):
		return domain.FamilyOllama
	default:
		return domain.FamilyUnknown
	}
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
