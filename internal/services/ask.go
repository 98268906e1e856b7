package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/ports"
)

// AskService orchestrates one completion request end-to-end:
// fingerprint, cache lookup, provider call, usage accounting, cache insert.
type AskService struct {
	ConfigProvider  ports.ConfigProvider
	ProviderFactory ports.ProviderFactory
	Cache           ports.CacheRepository
	Ledger          ports.LedgerRepository
	Cost            ports.CostCalculator
	Logger          ports.Logger
	SessionID       string
}

// Run processes a single prompt. The result is always populated; when every
// candidate model fails, Result.Error carries the joined failure description
// and no cache entry or usage record is created.
func (s *AskService) Run(req domain.AskRequest) (domain.AskResult, error) {
	if s.ConfigProvider == nil || s.ProviderFactory == nil || s.Cache == nil ||
		s.Ledger == nil || s.Cost == nil || s.Logger == nil {
		return domain.AskResult{}, errors.New("services.AskService dependencies not satisfied")
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	started := time.Now()

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return failedResult(started, fmt.Errorf("load config: %w", err))
	}

	primary, err := pickModel(cfg, req.ModelOverride)
	if err != nil {
		return failedResult(started, err)
	}

	policy := domain.NormalizePolicy(cfg.Cache.Normalize)
	key := domain.Fingerprint(req.Prompt, primary.ModelID, policy)

	if !req.BypassCache {
		entry, hit, err := s.Cache.Get(key)
		if err != nil {
			s.Logger.Warn("cache lookup failed", map[string]interface{}{"error": err.Error()})
		}
		if hit {
			s.Ledger.RecordHit()
			s.Logger.Debug("cache hit", map[string]interface{}{"key": key, "model": primary.ModelID})
			return domain.AskResult{
				Answer:    entry.Answer,
				ModelUsed: primary.Name,
				Family:    primary.Family,
				FromCache: true,
				Elapsed:   time.Since(started),
			}, nil
		}
	}

	// Single attempt per candidate, sequential, first success wins.
	candidates := buildCandidateModels(cfg, primary)
	errs := make([]error, 0, len(candidates))
	for _, model := range candidates {
		resp, err := s.completeWithModel(ctx, model, req)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", model.Name, err))
			continue
		}

		elapsed := time.Since(started)
		cost, priceKnown := s.Cost.Cost(model.ModelID, resp.Usage)
		if !priceKnown {
			s.Logger.Warn("model missing from price table, cost recorded as zero", map[string]interface{}{
				"model": model.ModelID,
			})
		}

		rec := domain.UsageRecord{
			ID:           uuid.NewString(),
			SessionID:    s.SessionID,
			Timestamp:    time.Now(),
			Model:        model.ModelID,
			Family:       model.Family,
			InputTokens:  resp.Usage.Input,
			OutputTokens: resp.Usage.Output,
			CostUSD:      cost,
			PriceKnown:   priceKnown,
			Prompt:       domain.TruncateForAudit(req.Prompt),
			Answer:       domain.TruncateForAudit(resp.Text),
			ElapsedMS:    elapsed.Milliseconds(),
		}
		if err := s.Ledger.Record(rec); err != nil {
			s.Logger.Warn("usage record failed", map[string]interface{}{"error": err.Error()})
		}

		// The entry is keyed by the model that actually answered, so a
		// fallback answer never shadows the primary model's cache slot.
		entry := domain.CacheEntry{
			Key:       domain.Fingerprint(req.Prompt, model.ModelID, policy),
			Model:     model.ModelID,
			Prompt:    domain.TruncateForAudit(req.Prompt),
			Answer:    resp.Text,
			CreatedAt: time.Now(),
		}
		if err := s.Cache.Set(entry); err != nil {
			s.Logger.Warn("cache insert failed", map[string]interface{}{"error": err.Error()})
		}

		return domain.AskResult{
			Answer:    resp.Text,
			ModelUsed: model.Name,
			Family:    model.Family,
			FromCache: false,
			Usage:     resp.Usage,
			CostUSD:   cost,
			Elapsed:   elapsed,
		}, nil
	}

	joined := errors.Join(errs...)
	if joined == nil {
		joined = errors.New("no provider available")
	}
	return failedResult(started, joined)
}

func (s *AskService) completeWithModel(ctx context.Context, model domain.ModelDefinition, req domain.AskRequest) (ports.CompletionResponse, error) {
	provider, err := s.ProviderFactory.ForModel(model)
	if err != nil {
		return ports.CompletionResponse{}, fmt.Errorf("provider init: %w", err)
	}

	s.Logger.Info("calling provider", map[string]interface{}{
		"provider": provider.Name(),
		"model":    model.ModelID,
	})

	resp, err := provider.Complete(ctx, ports.CompletionRequest{
		Prompt: req.Prompt,
		Params: model.Params.Merged(req.Params),
		Debug:  req.Debug,
	})
	if err != nil {
		return ports.CompletionResponse{}, err
	}
	return resp, nil
}

func pickModel(cfg domain.Config, override string) (domain.ModelDefinition, error) {
	name := override
	if name == "" {
		name = cfg.Preferences.DefaultModel
	}
	if name == "" && len(cfg.Models) > 0 {
		return cfg.Models[0], nil
	}
	if model, ok := findModel(cfg, name); ok {
		return model, nil
	}
	return domain.ModelDefinition{}, fmt.Errorf("model %s not configured", name)
}

func buildCandidateModels(cfg domain.Config, primary domain.ModelDefinition) []domain.ModelDefinition {
	candidates := make([]domain.ModelDefinition, 0, 1+len(cfg.Preferences.FallbackModels))
	candidates = append(candidates, primary)
	seen := map[string]bool{primary.Name: true}
	for _, name := range cfg.Preferences.FallbackModels {
		if seen[name] {
			continue
		}
		if model, ok := findModel(cfg, name); ok {
			candidates = append(candidates, model)
			seen[name] = true
		}
	}
	return candidates
}

func findModel(cfg domain.Config, name string) (domain.ModelDefinition, bool) {
	for _, model := range cfg.Models {
		if model.Name == name {
			return model, true
		}
	}
	return domain.ModelDefinition{}, false
}

func failedResult(started time.Time, err error) (domain.AskResult, error) {
	return domain.AskResult{
		Error:   err.Error(),
		Elapsed: time.Since(started),
	}, err
}

// Compile-time interface compliance check
var _ domain.AskService = (*AskService)(nil)
