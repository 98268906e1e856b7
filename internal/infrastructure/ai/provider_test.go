package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/ports"
)

func TestFactoryDispatchesOnFamily(t *testing.T) {
	factory := NewFactory()

	tests := []struct {
		family domain.ModelFamily
		name   string
	}{
		{domain.FamilyAnthropic, "anthropic"},
		{domain.FamilyOpenAI, "openai"},
		{domain.FamilyNova, "nova"},
		{domain.FamilyOllama, "ollama"},
	}
	for _, tc := range tests {
		provider, err := factory.ForModel(domain.ModelDefinition{Name: "m", Family: tc.family})
		if err != nil {
			t.Fatalf("ForModel(%s) error = %v", tc.family, err)
		}
		if provider.Name() != tc.name {
			t.Errorf("provider name = %s, want %s", provider.Name(), tc.name)
		}
	}
}

func TestFactoryRejectsUnknownFamily(t *testing.T) {
	_, err := NewFactory().ForModel(domain.ModelDefinition{Name: "m", Family: "bedrock"})
	if err == nil {
		t.Fatal("expected error for unknown family")
	}
}

func TestCompleteRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("content-type") != "application/json" {
			t.Errorf("content-type = %s", r.Header.Get("content-type"))
		}
		w.Write([]byte(`{
			"message": {"content": "served"},
			"prompt_eval_count": 4,
			"eval_count": 6
		}`))
	}))
	defer server.Close()

	model := domain.ModelDefinition{Name: "local", Family: domain.FamilyOllama, Endpoint: server.URL, ModelID: "llama3"}
	provider := newHTTPProvider("ollama", model, server.Client(), ollamaAdapter())

	resp, err := provider.Complete(context.Background(), ports.CompletionRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Text != "served" {
		t.Errorf("text = %q", resp.Text)
	}
	if resp.Usage.Input != 4 || resp.Usage.Output != 6 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestCompleteSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	model := domain.ModelDefinition{Name: "local", Family: domain.FamilyOllama, Endpoint: server.URL, ModelID: "ghost"}
	provider := newHTTPProvider("ollama", model, server.Client(), ollamaAdapter())

	_, err := provider.Complete(context.Background(), ports.CompletionRequest{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !strings.Contains(err.Error(), "fallback") {
		t.Errorf("404 error lacks remediation hint: %v", err)
	}
}

func TestAnthropicHeaderRequiresKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	req, _ := http.NewRequest(http.MethodPost, "https://api.anthropic.com/v1/messages", nil)
	err := setAnthropicHeaders(req, domain.ModelDefinition{AuthEnvVar: "MISSING_TEST_KEY"})
	if err == nil {
		t.Fatal("expected missing key error")
	}

	t.Setenv("MISSING_TEST_KEY", "sk-test")
	if err := setAnthropicHeaders(req, domain.ModelDefinition{AuthEnvVar: "MISSING_TEST_KEY"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Header.Get("x-api-key") != "sk-test" {
		t.Errorf("x-api-key = %q", req.Header.Get("x-api-key"))
	}
	if req.Header.Get("anthropic-version") == "" {
		t.Error("anthropic-version header not set")
	}
}
