package ai

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/ports"
)

type httpProvider struct {
	name       string
	model      domain.ModelDefinition
	httpClient *http.Client
	adapter    providerAdapter
}

// providerAdapter isolates the per-family wire format: request body shape,
// response text extraction, usage field normalization, and auth headers.
type providerAdapter struct {
	buildRequest  func(domain.ModelDefinition, string, domain.InferenceParams) ([]byte, error)
	parseResponse func([]byte) (string, domain.TokenUsage, error)
	setHeaders    func(*http.Request, domain.ModelDefinition) error
}

func newHTTPProvider(name string, model domain.ModelDefinition, client *http.Client, adapter providerAdapter) ports.Provider {
	return &httpProvider{
		name:       name,
		model:      model,
		httpClient: client,
		adapter:    adapter,
	}
}

func (p *httpProvider) Name() string {
	return p.name
}

func (p *httpProvider) Model() domain.ModelDefinition {
	return p.model
}

// Complete issues exactly one request to the provider endpoint. There are no
// retries; any transport or API failure surfaces to the orchestrator.
func (p *httpProvider) Complete(ctx context.Context, req ports.CompletionRequest) (ports.CompletionResponse, error) {
	requestBody, err := p.adapter.buildRequest(p.model, req.Prompt, req.Params)
	if err != nil {
		return ports.CompletionResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.model.Endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return ports.CompletionResponse{}, err
	}

	httpReq.Header.Set("content-type", "application/json")
	if err := p.adapter.setHeaders(httpReq, p.model); err != nil {
		return ports.CompletionResponse{}, err
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return ports.CompletionResponse{}, err
	}
	defer resp.Body.Close()

	var responseBody bytes.Buffer
	if _, err := responseBody.ReadFrom(resp.Body); err != nil {
		return ports.CompletionResponse{}, err
	}

	if resp.StatusCode >= 400 {
		return ports.CompletionResponse{}, statusError(p.name, resp.StatusCode, resp.Status)
	}

	text, usage, err := p.adapter.parseResponse(responseBody.Bytes())
	if err != nil {
		return ports.CompletionResponse{}, fmt.Errorf("%s: malformed response: %w", p.name, err)
	}

	return ports.CompletionResponse{Text: text, Usage: usage}, nil
}

// statusError attaches a remediation hint for the failure classes users can
// act on: auth problems and unavailable models.
func statusError(provider string, code int, status string) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %s (check the API key environment variable and model access)", provider, status)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %s (model unavailable at this endpoint; try a fallback model)", provider, status)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %s (throttled by provider)", provider, status)
	default:
		return fmt.Errorf("%s: %s", provider, status)
	}
}
