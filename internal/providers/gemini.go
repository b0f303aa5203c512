package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const geminiModelTimeout = 20 * time.Second

// GeminiProvider is the secondary backend. It walks an ordered list of
// model identifiers and stops at the first one returning non-empty text;
// a per-model failure just advances to the next model.
type GeminiProvider struct {
	apiKey  string
	apiBase string
	models  []string
	client  *http.Client
}

// NewGeminiProvider creates the secondary multi-model backend adapter.
func NewGeminiProvider(apiKey, apiBase string, models []string) *GeminiProvider {
	if apiBase == "" {
		apiBase = "https://generativelanguage.googleapis.com/v1beta"
	}
	if len(models) == 0 {
		models = []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-pro"}
	}
	return &GeminiProvider{
		apiKey:  apiKey,
		apiBase: strings.TrimRight(apiBase, "/"),
		models:  models,
		client:  &http.Client{},
	}
}

func (p *GeminiProvider) Name() string     { return "gemini" }
func (p *GeminiProvider) Configured() bool { return p.apiKey != "" }

func (p *GeminiProvider) Generate(ctx context.Context, prompt Prompt) Result {
	fullPrompt := fmt.Sprintf("%s\n\n用戶問題：%s\n\n請用繁體中文回答：", prompt.SystemPrompt, prompt.UserMessage)

	for _, model := range p.models {
		text, err := p.generateWithModel(ctx, model, fullPrompt)
		if err != nil {
			slog.Warn("gemini: model failed, trying next", "model", model, "error", err)
			continue
		}
		if text == "" {
			slog.Warn("gemini: model returned empty text, trying next", "model", model)
			continue
		}
		slog.Info("gemini: generated response", "model", model)
		return TextReply(text)
	}
	return NoResult
}

func (p *GeminiProvider) generateWithModel(ctx context.Context, model, fullPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, geminiModelTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": fullPrompt},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.apiBase, model, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text), nil
}
