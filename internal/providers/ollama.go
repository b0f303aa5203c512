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

const (
	ollamaProbeTimeout    = 5 * time.Second
	ollamaGenerateTimeout = 30 * time.Second
)

// OllamaProvider is the local-inference backend. A short liveness probe
// runs before every generation attempt; local daemons come and go, so
// reachability is checked fresh each call.
type OllamaProvider struct {
	url    string
	model  string
	client *http.Client
}

// NewOllamaProvider creates the local-inference adapter.
func NewOllamaProvider(url, model string) *OllamaProvider {
	if url == "" {
		url = "http://localhost:11434"
	}
	if model == "" {
		model = "llama2"
	}
	return &OllamaProvider{
		url:    strings.TrimRight(url, "/"),
		model:  model,
		client: &http.Client{},
	}
}

func (p *OllamaProvider) Name() string { return "ollama" }

// Configured probes the daemon once; there is no credential, reachability
// is the availability signal.
func (p *OllamaProvider) Configured() bool {
	return p.probe(context.Background())
}

func (p *OllamaProvider) Generate(ctx context.Context, prompt Prompt) Result {
	if !p.probe(ctx) {
		slog.Warn("ollama: daemon not reachable", "url", p.url)
		return NoResult
	}

	text, err := p.generate(ctx, prompt)
	if err != nil {
		slog.Warn("ollama: generation failed", "error", err)
		return NoResult
	}
	if text == "" {
		return NoResult
	}

	slog.Info("ollama: generated response", "model", p.model)
	return TextReply(text)
}

func (p *OllamaProvider) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, ollamaProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", p.url+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func (p *OllamaProvider) generate(ctx context.Context, prompt Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ollamaGenerateTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]interface{}{
		"model":  p.model,
		"prompt": fmt.Sprintf("%s\n\nUser: %s\nAssistant:", prompt.SystemPrompt, prompt.UserMessage),
		"stream": false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.url+"/api/generate", bytes.NewReader(body))
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
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return strings.TrimSpace(out.Response), nil
}
