// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the application to remain independent of specific
// implementations like databases, HTTP clients, or CLI frameworks.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Provider, ConfigProvider)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/doeshing/askai-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.askai/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ProviderFactory builds provider instances based on model definitions.
// It abstracts the creation of different provider families (Anthropic, OpenAI,
// Nova, Ollama) behind the explicit family tag.
type ProviderFactory interface {
	ForModel(domain.ModelDefinition) (Provider, error)
}

// Provider defines the core completion capability.
// Each provider implementation wraps a specific service API and normalizes
// its usage accounting into domain.TokenUsage.
type Provider interface {
	Name() string
	Model() domain.ModelDefinition
	Complete(context.Context, CompletionRequest) (CompletionResponse, error)
}

// CompletionRequest contains all data needed to generate one answer.
type CompletionRequest struct {
	Prompt string
	Params domain.InferenceParams
	Debug  bool
}

// CompletionResponse contains the generated text plus normalized token usage.
type CompletionResponse struct {
	Text  string
	Usage domain.TokenUsage
}

// CacheRepository stores provider answers addressed by fingerprint.
// Set is an unconditional overwrite (last-write-wins); one entry per key.
type CacheRepository interface {
	Get(key string) (domain.CacheEntry, bool, error)
	Set(entry domain.CacheEntry) error
	Entries() ([]domain.CacheEntry, error)
	Clear() error
	Settings() domain.CacheConfiguration
}

// LedgerRepository is the append-only usage log for a session.
// Record appends an immutable UsageRecord; RecordHit counts a cache hit
// without creating a record, since no provider call occurred.
type LedgerRepository interface {
	Record(rec domain.UsageRecord) error
	RecordHit()
	Records(limit int) ([]domain.UsageRecord, error)
	Summary() (domain.SessionSummary, error)
	Clear() error
	ExportJSON(dest string) error
}

// CostCalculator derives the dollar cost of a request from the price table.
// The boolean reports whether the model was actually priced; unpriced models
// cost zero and are flagged on the record rather than silently estimated.
type CostCalculator interface {
	Cost(modelID string, usage domain.TokenUsage) (float64, bool)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, zap).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
