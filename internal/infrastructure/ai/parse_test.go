package ai

import (
	"strings"
	"testing"

	"github.com/doeshing/askai-go/internal/domain"
)

func TestParseAnthropicResponse(t *testing.T) {
	body := []byte(`{
		"content": [{"type": "text", "text": "Machine learning is..."}],
		"usage": {"input_tokens": 12, "output_tokens": 84}
	}`)

	text, usage, err := parseAnthropicResponse(body)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if text != "Machine learning is..." {
		t.Errorf("text = %q", text)
	}
	if usage.Input != 12 || usage.Output != 84 {
		t.Errorf("usage = %+v", usage)
	}
}

func TestParseChatCompletionResponse(t *testing.T) {
	body := []byte(`{
		"choices": [{"message": {"role": "assistant", "content": " answer text \n"}}],
		"usage": {"prompt_tokens": 20, "completion_tokens": 55, "total_tokens": 75}
	}`)

	text, usage, err := parseChatCompletionResponse(body)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if text != "answer text" {
		t.Errorf("text = %q", text)
	}
	if usage.Input != 20 || usage.Output != 55 {
		t.Errorf("usage = %+v", usage)
	}
}

func TestParseNovaResponse(t *testing.T) {
	body := []byte(`{
		"output": {"message": {"role": "assistant", "content": [{"text": "nova answer"}]}},
		"usage": {"inputTokens": 9, "outputTokens": 31, "totalTokens": 40}
	}`)

	text, usage, err := parseNovaResponse(body)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if text != "nova answer" {
		t.Errorf("text = %q", text)
	}
	if usage.Input != 9 || usage.Output != 31 {
		t.Errorf("usage = %+v", usage)
	}
}

func TestParseOllamaResponse(t *testing.T) {
	body := []byte(`{
		"message": {"role": "assistant", "content": "local answer"},
		"prompt_eval_count": 7,
		"eval_count": 19
	}`)

	text, usage, err := parseOllamaResponse(body)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if text != "local answer" {
		t.Errorf("text = %q", text)
	}
	if usage.Input != 7 || usage.Output != 19 {
		t.Errorf("usage = %+v", usage)
	}
}

func TestParseMalformedBody(t *testing.T) {
	if _, _, err := parseAnthropicResponse([]byte("not json")); err == nil {
		t.Error("anthropic: expected error for malformed body")
	}
	if _, _, err := parseNovaResponse([]byte("{")); err == nil {
		t.Error("nova: expected error for malformed body")
	}
}

func TestParseEmptyContent(t *testing.T) {
	text, usage, err := parseAnthropicResponse([]byte(`{"content": [], "usage": {"input_tokens": 3}}`))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if text != "" || usage.Input != 3 {
		t.Errorf("text = %q usage = %+v", text, usage)
	}
}

func TestBuildNovaRequestShape(t *testing.T) {
	model := domain.ModelDefinition{ModelID: "amazon.nova-lite-v1:0"}
	params := domain.InferenceParams{MaxTokens: 256, Temperature: 0.5, TopP: 0.9}
	body, err := buildNovaRequest(model, "hello", params)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	for _, want := range []string{`"maxTokens":256`, `"temperature":0.5`, `"topP":0.9`, `"text":"hello"`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("request body missing %s: %s", want, body)
		}
	}
}
