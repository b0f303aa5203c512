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
	"unicode/utf8"
)

const (
	hfWhoamiTimeout = 10 * time.Second
	hfModelTimeout  = 25 * time.Second

	// hfMinLength is the minimum accepted completion length; the free-tier
	// small models frequently emit one- or two-token junk below this.
	hfMinLength = 5

	hfEndOfText   = "<|endoftext|>"
	hfReplyPrefix = "AI 回應："
)

// HuggingFaceProvider is the low-resource backend. It validates its token
// with a whoami call before attempting generation, then walks an ordered
// list of small models. HTTP 503 means the model is still warming up and
// advances to the next model; HTTP 401 is a terminal credential failure
// that stops the whole adapter.
type HuggingFaceProvider struct {
	token    string
	apiBase  string
	authBase string
	models   []string
	client   *http.Client
}

// NewHuggingFaceProvider creates the low-resource inference adapter.
func NewHuggingFaceProvider(token, apiBase, authBase string, models []string) *HuggingFaceProvider {
	if apiBase == "" {
		apiBase = "https://api-inference.huggingface.co"
	}
	if authBase == "" {
		authBase = "https://huggingface.co"
	}
	if len(models) == 0 {
		models = []string{"bigscience/bloom-560m", "distilgpt2", "gpt2"}
	}
	return &HuggingFaceProvider{
		token:    token,
		apiBase:  strings.TrimRight(apiBase, "/"),
		authBase: strings.TrimRight(authBase, "/"),
		models:   models,
		client:   &http.Client{},
	}
}

func (p *HuggingFaceProvider) Name() string     { return "huggingface" }
func (p *HuggingFaceProvider) Configured() bool { return p.token != "" }

func (p *HuggingFaceProvider) Generate(ctx context.Context, prompt Prompt) Result {
	if !p.validateToken(ctx) {
		return NoResult
	}

	for _, model := range p.models {
		text, status, err := p.generateWithModel(ctx, model, prompt.UserMessage)
		if err != nil {
			slog.Warn("huggingface: model failed, trying next", "model", model, "error", err)
			continue
		}
		switch {
		case status == http.StatusServiceUnavailable:
			slog.Info("huggingface: model is loading, trying next", "model", model)
			continue
		case status == http.StatusUnauthorized:
			slog.Warn("huggingface: token unauthorized")
			return NoResult
		case status != http.StatusOK:
			slog.Warn("huggingface: unexpected status, trying next", "model", model, "status", status)
			continue
		}

		if text != "" {
			slog.Info("huggingface: generated response", "model", model)
			return TextReply(hfReplyPrefix + text)
		}
	}
	return NoResult
}

// validateToken makes a lightweight whoami call; a failed check
// short-circuits the adapter without attempting generation.
func (p *HuggingFaceProvider) validateToken(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, hfWhoamiTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", p.authBase+"/api/whoami", nil)
	if err != nil {
		slog.Warn("huggingface: create whoami request", "error", err)
		return false
	}
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		slog.Warn("huggingface: whoami request failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("huggingface: token validation failed", "status", resp.StatusCode)
		return false
	}
	return true
}

func (p *HuggingFaceProvider) generateWithModel(ctx context.Context, model, userMessage string) (string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, hfModelTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]interface{}{
		"inputs": fmt.Sprintf("問題：%s\n回答：", userMessage),
		"parameters": map[string]interface{}{
			"max_new_tokens":   80,
			"temperature":      0.8,
			"return_full_text": false,
		},
	})
	if err != nil {
		return "", 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.apiBase+"/models/"+model, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", resp.StatusCode, nil
	}

	var out []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", 0, fmt.Errorf("decode response: %w", err)
	}
	if len(out) == 0 {
		return "", http.StatusOK, nil
	}

	text := strings.TrimSpace(strings.ReplaceAll(out[0].GeneratedText, hfEndOfText, ""))
	if utf8.RuneCountInString(text) <= hfMinLength {
		return "", http.StatusOK, nil
	}
	return text, http.StatusOK, nil
}
