// Package domain defines core business entities and value objects for askai.
//
// This file contains model and provider-family definitions used throughout the
// application. The domain layer is independent of infrastructure concerns and
// represents pure business logic and data structures.
package domain

// ModelFamily identifies the provider API shape a model speaks.
//
// Dispatch on an explicit family tag replaces substring matching on model
// identifiers, so a new model ID can never be silently misclassified.
type ModelFamily string

const (
	FamilyAnthropic ModelFamily = "anthropic"
	FamilyOpenAI    ModelFamily = "openai"
	FamilyNova      ModelFamily = "nova"
	FamilyOllama    ModelFamily = "ollama"
	FamilyUnknown   ModelFamily = ""
)

// KnownFamilies lists every family the provider factory can build.
var KnownFamilies = []ModelFamily{FamilyAnthropic, FamilyOpenAI, FamilyNova, FamilyOllama}

// ModelDefinition describes an AI provider configuration declared in the config file.
// Each model represents a specific service endpoint with its authentication and
// generation parameters.
type ModelDefinition struct {
	Name       string          `yaml:"name"`
	Family     ModelFamily     `yaml:"family"`
	Endpoint   string          `yaml:"endpoint"`
	AuthEnvVar string          `yaml:"auth_env_var"`
	ModelID    string          `yaml:"model_id"`
	Params     InferenceParams `yaml:"params"`
}

// InferenceParams holds the generation options recognized by every family.
type InferenceParams struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
}

// Merged overlays non-zero override values on top of p.
func (p InferenceParams) Merged(override InferenceParams) InferenceParams {
	out := p
	if override.MaxTokens > 0 {
		out.MaxTokens = override.MaxTokens
	}
	if override.Temperature > 0 {
		out.Temperature = override.Temperature
	}
	if override.TopP > 0 {
		out.TopP = override.TopP
	}
	return out
}

// WithDefaults fills unset params from the domain defaults.
func (p InferenceParams) WithDefaults() InferenceParams {
	if p.MaxTokens == 0 {
		p.MaxTokens = DefaultMaxTokens
	}
	if p.Temperature == 0 {
		p.Temperature = DefaultTemperature
	}
	if p.TopP == 0 {
		p.TopP = DefaultTopP
	}
	return p
}

// TokenUsage is the normalized token accounting extracted from a provider
// response, regardless of the provider-specific field names on the wire.
type TokenUsage struct {
	Input  int `json:"input_tokens"`
	Output int `json:"output_tokens"`
}

// Total returns input plus output tokens.
func (u TokenUsage) Total() int {
	return u.Input + u.Output
}
