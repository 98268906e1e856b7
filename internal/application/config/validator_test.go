package config

import (
	"strings"
	"testing"

	"github.com/doeshing/askai-go/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		Preferences: domain.Preferences{DefaultModel: "nova-lite"},
		Models: []domain.ModelDefinition{
			{
				Name:     "nova-lite",
				Family:   domain.FamilyNova,
				Endpoint: "https://bedrock-runtime.us-east-1.amazonaws.com/model/amazon.nova-lite-v1:0/converse",
				ModelID:  "amazon.nova-lite-v1:0",
				Params:   domain.InferenceParams{MaxTokens: 512, Temperature: 0.7, TopP: 0.9},
			},
		},
		Cache:  domain.CacheSettings{Backend: "memory", Normalize: "none", TTL: "1h", MaxEntries: 100},
		Ledger: domain.LedgerSettings{Backend: "memory"},
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantMsg string
	}{
		{
			name:    "no models",
			mutate:  func(c *domain.Config) { c.Models = nil },
			wantMsg: "at least one model",
		},
		{
			name: "duplicate model names",
			mutate: func(c *domain.Config) {
				c.Models = append(c.Models, c.Models[0])
			},
			wantMsg: "duplicate model name",
		},
		{
			name:    "unknown family",
			mutate:  func(c *domain.Config) { c.Models[0].Family = "bedrock" },
			wantMsg: "family must be one of",
		},
		{
			name:    "missing default model",
			mutate:  func(c *domain.Config) { c.Preferences.DefaultModel = "ghost" },
			wantMsg: "default model ghost not found",
		},
		{
			name:    "missing fallback model",
			mutate:  func(c *domain.Config) { c.Preferences.FallbackModels = []string{"ghost"} },
			wantMsg: "fallback model ghost not found",
		},
		{
			name:    "temperature out of range",
			mutate:  func(c *domain.Config) { c.Models[0].Params.Temperature = 1.5 },
			wantMsg: "temperature must be in [0,1]",
		},
		{
			name:    "top_p out of range",
			mutate:  func(c *domain.Config) { c.Models[0].Params.TopP = -0.1 },
			wantMsg: "top_p must be in [0,1]",
		},
		{
			name:    "bad cache backend",
			mutate:  func(c *domain.Config) { c.Cache.Backend = "redis" },
			wantMsg: "cache.backend",
		},
		{
			name:    "bad normalize policy",
			mutate:  func(c *domain.Config) { c.Cache.Normalize = "upper" },
			wantMsg: "cache.normalize",
		},
		{
			name:    "bad cache ttl",
			mutate:  func(c *domain.Config) { c.Cache.TTL = "soon" },
			wantMsg: "cache.ttl invalid",
		},
		{
			name:    "bad ledger backend",
			mutate:  func(c *domain.Config) { c.Ledger.Backend = "postgres" },
			wantMsg: "ledger.backend",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.wantMsg)
			}
		})
	}
}
