package ai

import (
	"fmt"
	"net/http"

	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/ports"
)

type Factory struct {
	httpClient *http.Client
}

func NewFactory() *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: domain.DefaultHTTPClientTimeout},
	}
}

// ForModel dispatches on the explicit family tag. There is no substring
// inference here; a definition with an unknown family is a config error.
func (f *Factory) ForModel(model domain.ModelDefinition) (ports.Provider, error) {
	switch model.Family {
	case domain.FamilyAnthropic:
		return newHTTPProvider("anthropic", model, f.httpClient, anthropicAdapter()), nil
	case domain.FamilyOpenAI:
		return newHTTPProvider("openai", model, f.httpClient, openaiAdapter()), nil
	case domain.FamilyNova:
		return newHTTPProvider("nova", model, f.httpClient, novaAdapter()), nil
	case domain.FamilyOllama:
		return newHTTPProvider("ollama", model, f.httpClient, ollamaAdapter()), nil
	default:
		return nil, fmt.Errorf("model %s: unsupported provider family %q", model.Name, model.Family)
	}
}

var _ ports.ProviderFactory = (*Factory)(nil)
