package ai

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/doeshing/askai-go/internal/domain"
)

func ollamaAdapter() providerAdapter {
	return providerAdapter{
		buildRequest:  buildOllamaRequest,
		parseResponse: parseOllamaResponse,
		setHeaders:    setOllamaHeaders,
	}
}

func buildOllamaRequest(model domain.ModelDefinition, prompt string, params domain.InferenceParams) ([]byte, error) {
	request := map[string]interface{}{
		"model":  model.ModelID,
		"stream": false,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"options": map[string]interface{}{
			"num_predict": defaultInt(params.MaxTokens, domain.DefaultMaxTokens),
			"temperature": params.Temperature,
			"top_p":       params.TopP,
		},
	}
	return json.Marshal(request)
}

func parseOllamaResponse(body []byte) (string, domain.TokenUsage, error) {
	var response struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		PromptEvalCount int `json:"prompt_eval_count"`
		EvalCount       int `json:"eval_count"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", domain.TokenUsage{}, err
	}

	usage := domain.TokenUsage{Input: response.PromptEvalCount, Output: response.EvalCount}
	return strings.TrimSpace(response.Message.Content), usage, nil
}

// Local ollama endpoints take no auth.
func setOllamaHeaders(req *http.Request, model domain.ModelDefinition) error {
	return nil
}
