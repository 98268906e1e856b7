package ai

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/doeshing/askai-go/internal/domain"
)

// The nova adapter speaks the Bedrock converse shape used by the Amazon Nova
// family: camelCase inference config and a nested output message.
func novaAdapter() providerAdapter {
	return providerAdapter{
		buildRequest:  buildNovaRequest,
		parseResponse: parseNovaResponse,
		setHeaders:    setNovaHeaders,
	}
}

func buildNovaRequest(model domain.ModelDefinition, prompt string, params domain.InferenceParams) ([]byte, error) {
	request := map[string]interface{}{
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"inferenceConfig": map[string]interface{}{
			"maxTokens":   defaultInt(params.MaxTokens, domain.DefaultMaxTokens),
			"temperature": params.Temperature,
			"topP":        params.TopP,
		},
	}
	return json.Marshal(request)
}

func parseNovaResponse(body []byte) (string, domain.TokenUsage, error) {
	var response struct {
		Output struct {
			Message struct {
				Content []struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"message"`
		} `json:"output"`
		Usage struct {
			InputTokens  int `json:"inputTokens"`
			OutputTokens int `json:"outputTokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", domain.TokenUsage{}, err
	}

	usage := domain.TokenUsage{Input: response.Usage.InputTokens, Output: response.Usage.OutputTokens}
	if len(response.Output.Message.Content) == 0 {
		return "", usage, nil
	}
	return response.Output.Message.Content[0].Text, usage, nil
}

func setNovaHeaders(req *http.Request, model domain.ModelDefinition) error {
	token := getEnv(model.AuthEnvVar, "AWS_BEARER_TOKEN_BEDROCK")
	if token == "" {
		return fmt.Errorf("missing bearer token: set %s or AWS_BEARER_TOKEN_BEDROCK", model.AuthEnvVar)
	}
	req.Header.Set("authorization", "Bearer "+token)
	return nil
}
