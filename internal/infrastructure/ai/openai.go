package ai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/doeshing/askai-go/internal/domain"
)

func openaiAdapter() providerAdapter {
	return providerAdapter{
		buildRequest:  buildChatCompletionRequest,
		parseResponse: parseChatCompletionResponse,
		setHeaders:    setOpenAIHeaders,
	}
}

func buildChatCompletionRequest(model domain.ModelDefinition, prompt string, params domain.InferenceParams) ([]byte, error) {
	request := map[string]interface{}{
		"model": model.ModelID,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	if params.MaxTokens > 0 {
		request["max_tokens"] = params.MaxTokens
	}
	if params.Temperature > 0 {
		request["temperature"] = params.Temperature
	}
	if params.TopP > 0 {
		request["top_p"] = params.TopP
	}
	return json.Marshal(request)
}

func parseChatCompletionResponse(body []byte) (string, domain.TokenUsage, error) {
	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", domain.TokenUsage{}, err
	}

	usage := domain.TokenUsage{Input: response.Usage.PromptTokens, Output: response.Usage.CompletionTokens}
	if len(response.Choices) == 0 {
		return "", usage, nil
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), usage, nil
}

func setOpenAIHeaders(req *http.Request, model domain.ModelDefinition) error {
	apiKey := getEnv(model.AuthEnvVar, "OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("missing API key: set %s or OPENAI_API_KEY", model.AuthEnvVar)
	}
	req.Header.Set("authorization", "Bearer "+apiKey)
	return nil
}
