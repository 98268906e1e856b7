package ai

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/doeshing/askai-go/internal/domain"
)

func anthropicAdapter() providerAdapter {
	return providerAdapter{
		buildRequest:  buildAnthropicRequest,
		parseResponse: parseAnthropicResponse,
		setHeaders:    setAnthropicHeaders,
	}
}

func buildAnthropicRequest(model domain.ModelDefinition, prompt string, params domain.InferenceParams) ([]byte, error) {
	request := map[string]interface{}{
		"model":      model.ModelID,
		"max_tokens": defaultInt(params.MaxTokens, domain.DefaultMaxTokens),
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]string{
					{"type": "text", "text": prompt},
				},
			},
		},
	}
	if params.Temperature > 0 {
		request["temperature"] = params.Temperature
	}
	if params.TopP > 0 {
		request["top_p"] = params.TopP
	}
	return json.Marshal(request)
}

func parseAnthropicResponse(body []byte) (string, domain.TokenUsage, error) {
	var response struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", domain.TokenUsage{}, err
	}

	usage := domain.TokenUsage{Input: response.Usage.InputTokens, Output: response.Usage.OutputTokens}
	if len(response.Content) == 0 {
		return "", usage, nil
	}
	return response.Content[0].Text, usage, nil
}

func setAnthropicHeaders(req *http.Request, model domain.ModelDefinition) error {
	apiKey := getEnv(model.AuthEnvVar, "ANTHROPIC_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("missing API key: set %s or ANTHROPIC_API_KEY", model.AuthEnvVar)
	}
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	return nil
}
