package doctor

import (
	"context"
	"fmt"
	"os"

	appconfig "github.com/doeshing/askai-go/internal/application/config"
	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/pricing"
	"github.com/doeshing/askai-go/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Cache          ports.CacheRepository
	Ledger         ports.LedgerRepository
	PriceTable     pricing.Table
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded, format %s", cfg.ConfigFormatVersion)))

	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config structure", err.Error()))
	} else {
		checks = append(checks, ok("Config structure", fmt.Sprintf("%d models configured", len(cfg.Models))))
	}

	checks = append(checks, apiKeyCheck(cfg.Models))
	checks = append(checks, s.pricingCheck(cfg.Models))

	if s.Cache != nil {
		settings := s.Cache.Settings()
		if _, err := s.Cache.Entries(); err != nil {
			checks = append(checks, warn("Cache store", err.Error()))
		} else {
			checks = append(checks, ok("Cache store", fmt.Sprintf("%s backend ready", settings.Backend)))
		}
	} else {
		checks = append(checks, warn("Cache store", "not initialized"))
	}

	if s.Ledger != nil {
		if _, err := s.Ledger.Summary(); err != nil {
			checks = append(checks, warn("Usage ledger", err.Error()))
		} else {
			checks = append(checks, ok("Usage ledger", "backend ready"))
		}
	} else {
		checks = append(checks, warn("Usage ledger", "not initialized"))
	}

	return domain.HealthReport{Checks: checks}, nil
}

func apiKeyCheck(models []domain.ModelDefinition) domain.HealthCheck {
	for _, model := range models {
		switch model.Family {
		case domain.FamilyAnthropic:
			if envMissing(model.AuthEnvVar, "ANTHROPIC_API_KEY") {
				return warn("API keys", "ANTHROPIC_API_KEY missing")
			}
		case domain.FamilyOpenAI:
			if envMissing(model.AuthEnvVar, "OPENAI_API_KEY") {
				return warn("API keys", "OPENAI_API_KEY missing")
			}
		case domain.FamilyNova:
			if envMissing(model.AuthEnvVar, "AWS_BEARER_TOKEN_BEDROCK") {
				return warn("API keys", "AWS_BEARER_TOKEN_BEDROCK missing")
			}
		}
	}
	return ok("API keys", "detected for configured providers")
}

// pricingCheck flags models that would be recorded at zero cost.
func (s *Service) pricingCheck(models []domain.ModelDefinition) domain.HealthCheck {
	if s.PriceTable == nil {
		return warn("Pricing", "price table not loaded")
	}
	var unpriced []string
	for _, model := range models {
		if _, found := s.PriceTable.Lookup(model.ModelID); !found {
			unpriced = append(unpriced, model.ModelID)
		}
	}
	if len(unpriced) > 0 {
		return warn("Pricing", fmt.Sprintf("no rates for %v, cost will record as zero", unpriced))
	}
	return ok("Pricing", fmt.Sprintf("rates found for all %d models", len(models)))
}

func envMissing(primary, fallback string) bool {
	if primary != "" && os.Getenv(primary) != "" {
		return false
	}
	if fallback != "" && os.Getenv(fallback) != "" {
		return false
	}
	return true
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
