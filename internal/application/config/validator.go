package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/doeshing/askai-go/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if len(cfg.Models) == 0 {
		return errors.New("at least one model must be configured")
	}
	seen := make(map[string]bool, len(cfg.Models))
	for _, model := range cfg.Models {
		if model.Name == "" {
			return errors.New("every model needs a name")
		}
		if seen[model.Name] {
			return fmt.Errorf("duplicate model name %s", model.Name)
		}
		seen[model.Name] = true
		if err := validateModel(model); err != nil {
			return err
		}
	}
	defaultModel := cfg.Preferences.DefaultModel
	if defaultModel == "" {
		defaultModel = cfg.Models[0].Name
	}
	if _, ok := findModel(cfg, defaultModel); !ok {
		return fmt.Errorf("default model %s not found in models list", defaultModel)
	}
	for _, name := range cfg.Preferences.FallbackModels {
		if _, ok := findModel(cfg, name); !ok {
			return fmt.Errorf("fallback model %s not found", name)
		}
	}
	if err := validateCache(cfg.Cache); err != nil {
		return err
	}
	if err := validateLedger(cfg.Ledger); err != nil {
		return err
	}
	return nil
}

func validateModel(model domain.ModelDefinition) error {
	if !knownFamily(model.Family) {
		return fmt.Errorf("model %s: family must be one of anthropic|openai|nova|ollama, got %q", model.Name, model.Family)
	}
	if model.Endpoint == "" {
		return fmt.Errorf("model %s: endpoint must be set", model.Name)
	}
	if model.ModelID == "" {
		return fmt.Errorf("model %s: model_id must be set", model.Name)
	}
	if model.Params.MaxTokens < 0 {
		return fmt.Errorf("model %s: params.max_tokens must be >= 0", model.Name)
	}
	if model.Params.Temperature < 0 || model.Params.Temperature > 1 {
		return fmt.Errorf("model %s: params.temperature must be in [0,1]", model.Name)
	}
	if model.Params.TopP < 0 || model.Params.TopP > 1 {
		return fmt.Errorf("model %s: params.top_p must be in [0,1]", model.Name)
	}
	return nil
}

func validateCache(cache domain.CacheSettings) error {
	switch cache.Backend {
	case "", domain.CacheBackendMemory, domain.CacheBackendRistretto, domain.CacheBackendFile:
	default:
		return fmt.Errorf("cache.backend must be memory|ristretto|file, got %s", cache.Backend)
	}
	if !knownPolicy(domain.NormalizePolicy(cache.Normalize)) {
		return fmt.Errorf("cache.normalize must be none|trim|fold, got %s", cache.Normalize)
	}
	if cache.TTL != "" {
		if _, err := time.ParseDuration(cache.TTL); err != nil {
			return fmt.Errorf("cache.ttl invalid: %w", err)
		}
	}
	if cache.MaxEntries < 0 {
		return errors.New("cache.max_entries must be >= 0")
	}
	if cache.MaxCostBytes < 0 {
		return errors.New("cache.max_cost_bytes must be >= 0")
	}
	return nil
}

func validateLedger(ledger domain.LedgerSettings) error {
	switch ledger.Backend {
	case "", domain.LedgerBackendMemory, domain.LedgerBackendSQLite, domain.LedgerBackendFile:
		return nil
	default:
		return fmt.Errorf("ledger.backend must be memory|sqlite|file, got %s", ledger.Backend)
	}
}

func knownFamily(family domain.ModelFamily) bool {
	for _, f := range domain.KnownFamilies {
		if family == f {
			return true
		}
	}
	return false
}

func knownPolicy(policy domain.NormalizePolicy) bool {
	if policy == "" {
		return true
	}
	for _, p := range domain.KnownNormalizePolicies {
		if policy == p {
			return true
		}
	}
	return false
}

func findModel(cfg domain.Config, name string) (domain.ModelDefinition, bool) {
	for _, model := range cfg.Models {
		if model.Name == name {
			return model, true
		}
	}
	return domain.ModelDefinition{}, false
}
