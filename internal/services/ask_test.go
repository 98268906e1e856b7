package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/infrastructure/cache"
	"github.com/doeshing/askai-go/internal/infrastructure/ledger"
	"github.com/doeshing/askai-go/internal/pkg/logger"
	"github.com/doeshing/askai-go/internal/ports"
)

func testConfig() domain.Config {
	return domain.Config{
		Preferences: domain.Preferences{DefaultModel: "nova-lite"},
		Models: []domain.ModelDefinition{
			{Name: "nova-lite", Family: domain.FamilyNova, Endpoint: "https://bedrock.example", ModelID: "amazon.nova-lite-v1:0"},
			{Name: "claude-sonnet", Family: domain.FamilyAnthropic, Endpoint: "https://api.anthropic.com/v1/messages", ModelID: "claude-3-5-sonnet-20240620"},
		},
		Cache: domain.CacheSettings{Normalize: "none"},
	}
}

func newService(cfg domain.Config, factory ports.ProviderFactory) (*AskService, *ledger.MemoryLedger, *cache.MemoryCache) {
	led := ledger.NewMemoryLedger()
	store := cache.NewMemoryCache(0, 0)
	svc := &AskService{
		ConfigProvider:  stubConfigProvider{cfg: cfg},
		ProviderFactory: factory,
		Cache:           store,
		Ledger:          led,
		Cost:            stubCost{rate: 0.000001, known: true},
		Logger:          logger.NewStd(false),
		SessionID:       "session-test",
	}
	return svc, led, store
}

func TestRunMissThenHit(t *testing.T) {
	provider := &countingProvider{
		name: "nova",
		resp: ports.CompletionResponse{Text: "ML is a field of AI.", Usage: domain.TokenUsage{Input: 12, Output: 84}},
	}
	svc, led, _ := newService(testConfig(), stubFactory{provider: provider})

	req := domain.AskRequest{Context: context.Background(), Prompt: "What is machine learning?"}

	first, err := svc.Run(req)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if first.FromCache {
		t.Fatal("first call should not come from cache")
	}
	if first.Answer != "ML is a field of AI." {
		t.Fatalf("answer = %q", first.Answer)
	}

	second, err := svc.Run(req)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !second.FromCache {
		t.Fatal("second call should come from cache")
	}
	if second.Answer != first.Answer {
		t.Fatalf("cached answer %q differs from original %q", second.Answer, first.Answer)
	}
	if provider.calls != 1 {
		t.Fatalf("provider called %d times, want exactly 1", provider.calls)
	}

	sum, _ := led.Summary()
	if sum.Requests != 1 || sum.CacheHits != 1 {
		t.Fatalf("summary = %+v, want 1 request and 1 hit", sum)
	}
}

func TestRunRecordsUsageAndCost(t *testing.T) {
	provider := &countingProvider{
		name: "nova",
		resp: ports.CompletionResponse{Text: "answer", Usage: domain.TokenUsage{Input: 100, Output: 200}},
	}
	svc, led, _ := newService(testConfig(), stubFactory{provider: provider})

	result, err := svc.Run(domain.AskRequest{Context: context.Background(), Prompt: "p"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Usage.Input != 100 || result.Usage.Output != 200 {
		t.Fatalf("usage = %+v", result.Usage)
	}
	if result.CostUSD <= 0 {
		t.Fatalf("cost = %f, want > 0", result.CostUSD)
	}

	records, _ := led.Records(0)
	if len(records) != 1 {
		t.Fatalf("ledger records = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.Model != "amazon.nova-lite-v1:0" || rec.InputTokens != 100 || rec.OutputTokens != 200 {
		t.Fatalf("record = %+v", rec)
	}
	if rec.ID == "" || rec.SessionID != "session-test" {
		t.Fatalf("record identity not stamped: %+v", rec)
	}
	if !rec.PriceKnown {
		t.Fatal("price should be known for stub calculator")
	}
}

func TestRunFailureLeavesNoTrace(t *testing.T) {
	provider := &countingProvider{name: "nova", err: errors.New("nova: 403 Forbidden")}
	cfg := testConfig()
	cfg.Models = cfg.Models[:1] // no fallback configured
	svc, led, store := newService(cfg, stubFactory{provider: provider})

	result, err := svc.Run(domain.AskRequest{Context: context.Background(), Prompt: "p"})
	if err == nil {
		t.Fatal("expected error from failed provider")
	}
	if !result.Failed() || result.Error == "" {
		t.Fatalf("result.Error empty on failure: %+v", result)
	}

	entries, _ := store.Entries()
	if len(entries) != 0 {
		t.Fatalf("failed call cached %d entries", len(entries))
	}
	records, _ := led.Records(0)
	if len(records) != 0 {
		t.Fatalf("failed call recorded %d usage records", len(records))
	}
	sum, _ := led.Summary()
	if sum.CacheHits != 0 {
		t.Fatalf("failed call counted as hit: %+v", sum)
	}
}

func TestRunFallbackSequential(t *testing.T) {
	factory := &scriptedFactory{
		providers: map[string]ports.Provider{
			"amazon.nova-lite-v1:0": &countingProvider{name: "nova", err: errors.New("nova: 404 Not Found")},
			"claude-3-5-sonnet-20240620": &countingProvider{
				name: "anthropic",
				resp: ports.CompletionResponse{Text: "fallback answer", Usage: domain.TokenUsage{Input: 5, Output: 9}},
			},
		},
	}
	cfg := testConfig()
	cfg.Preferences.FallbackModels = []string{"claude-sonnet"}
	svc, _, store := newService(cfg, factory)

	result, err := svc.Run(domain.AskRequest{Context: context.Background(), Prompt: "p"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.ModelUsed != "claude-sonnet" {
		t.Fatalf("model used = %s, want claude-sonnet", result.ModelUsed)
	}
	if result.Answer != "fallback answer" {
		t.Fatalf("answer = %q", result.Answer)
	}

	// The fallback answer is cached under the fallback model's fingerprint.
	key := domain.Fingerprint("p", "claude-3-5-sonnet-20240620", domain.NormalizeNone)
	if _, ok, _ := store.Get(key); !ok {
		t.Fatal("fallback answer not cached under its own model key")
	}
	primaryKey := domain.Fingerprint("p", "amazon.nova-lite-v1:0", domain.NormalizeNone)
	if _, ok, _ := store.Get(primaryKey); ok {
		t.Fatal("fallback answer must not shadow the primary model's slot")
	}
}

func TestRunAllCandidatesFailJoinsErrors(t *testing.T) {
	factory := &scriptedFactory{
		providers: map[string]ports.Provider{
			"amazon.nova-lite-v1:0":      &countingProvider{name: "nova", err: errors.New("nova down")},
			"claude-3-5-sonnet-20240620": &countingProvider{name: "anthropic", err: errors.New("anthropic down")},
		},
	}
	cfg := testConfig()
	cfg.Preferences.FallbackModels = []string{"claude-sonnet"}
	svc, _, _ := newService(cfg, factory)

	result, err := svc.Run(domain.AskRequest{Context: context.Background(), Prompt: "p"})
	if err == nil {
		t.Fatal("expected joined error")
	}
	for _, want := range []string{"nova down", "anthropic down"} {
		if !strings.Contains(result.Error, want) {
			t.Errorf("error %q missing %q", result.Error, want)
		}
	}
}

func TestRunBypassCacheSkipsLookup(t *testing.T) {
	provider := &countingProvider{
		name: "nova",
		resp: ports.CompletionResponse{Text: "fresh", Usage: domain.TokenUsage{Input: 1, Output: 1}},
	}
	svc, _, _ := newService(testConfig(), stubFactory{provider: provider})

	req := domain.AskRequest{Context: context.Background(), Prompt: "p", BypassCache: true}
	if _, err := svc.Run(req); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Run(req); err != nil {
		t.Fatal(err)
	}
	if provider.calls != 2 {
		t.Fatalf("provider called %d times, want 2 with bypass", provider.calls)
	}
}

func TestRunUnknownModelOverride(t *testing.T) {
	svc, _, _ := newService(testConfig(), stubFactory{provider: &countingProvider{name: "nova"}})
	result, err := svc.Run(domain.AskRequest{Context: context.Background(), Prompt: "p", ModelOverride: "ghost"})
	if err == nil {
		t.Fatal("expected error for unknown model override")
	}
	if result.Error == "" {
		t.Fatal("result.Error not populated")
	}
}

type stubConfigProvider struct {
	cfg domain.Config
	err error
}

func (s stubConfigProvider) Load(context.Context) (domain.Config, error) {
	return s.cfg, s.err
}

type stubFactory struct {
	provider ports.Provider
	err      error
}

func (s stubFactory) ForModel(domain.ModelDefinition) (ports.Provider, error) {
	return s.provider, s.err
}

// scriptedFactory hands out a different provider per model ID.
type scriptedFactory struct {
	providers map[string]ports.Provider
}

func (s *scriptedFactory) ForModel(model domain.ModelDefinition) (ports.Provider, error) {
	provider, ok := s.providers[model.ModelID]
	if !ok {
		return nil, errors.New("no provider scripted for " + model.ModelID)
	}
	return provider, nil
}

type countingProvider struct {
	name  string
	resp  ports.CompletionResponse
	err   error
	calls int
}

func (p *countingProvider) Name() string                  { return p.name }
func (p *countingProvider) Model() domain.ModelDefinition { return domain.ModelDefinition{} }
func (p *countingProvider) Complete(context.Context, ports.CompletionRequest) (ports.CompletionResponse, error) {
	p.calls++
	return p.resp, p.err
}

type stubCost struct {
	rate  float64
	known bool
}

func (s stubCost) Cost(modelID string, usage domain.TokenUsage) (float64, bool) {
	return float64(usage.Total()) * s.rate, s.known
}
