package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	openAITimeout     = 30 * time.Second
	openAIMaxTokens   = 500
	openAITemperature = 0.7
)

// OpenAIProvider is the primary backend: a single chat-completions call
// against one fixed model.
type OpenAIProvider struct {
	apiKey  string
	apiBase string
	model   string
	client  *http.Client
}

// NewOpenAIProvider creates the primary backend adapter.
func NewOpenAIProvider(apiKey, apiBase, model string) *OpenAIProvider {
	if apiBase == "" {
		apiBase = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAIProvider{
		apiKey:  apiKey,
		apiBase: strings.TrimRight(apiBase, "/"),
		model:   model,
		client:  &http.Client{Timeout: openAITimeout},
	}
}

func (p *OpenAIProvider) Name() string     { return "openai" }
func (p *OpenAIProvider) Configured() bool { return p.apiKey != "" }

func (p *OpenAIProvider) Generate(ctx context.Context, prompt Prompt) Result {
	body, err := json.Marshal(map[string]interface{}{
		"model": p.model,
		"messages": []map[string]string{
			{"role": "system", "content": prompt.SystemPrompt},
			{"role": "user", "content": prompt.UserMessage},
		},
		"max_tokens":  openAIMaxTokens,
		"temperature": openAITemperature,
	})
	if err != nil {
		slog.Warn("openai: marshal request", "error", err)
		return NoResult
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.apiBase+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		slog.Warn("openai: create request", "error", err)
		return NoResult
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		slog.Warn("openai: request failed", "error", err)
		return NoResult
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		slog.Warn("openai: unexpected status", "status", resp.StatusCode, "body", string(respBody))
		return NoResult
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		slog.Warn("openai: decode response", "error", err)
		return NoResult
	}
	if len(out.Choices) == 0 {
		slog.Warn("openai: response has no choices")
		return NoResult
	}

	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		slog.Warn("openai: empty completion")
		return NoResult
	}

	slog.Info("openai: generated response", "model", p.model)
	return TextReply(text)
}
