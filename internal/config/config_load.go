package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/titanous/json5"
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Host: "0.0.0.0",
			Port: 5000,
		},
		Line: LineConfig{
			APIBase: "https://api.line.me",
		},
		Providers: ProvidersConfig{
			OpenAI: OpenAIConfig{
				APIBase: "https://api.openai.com/v1",
				Model:   "gpt-4o",
			},
			Gemini: GeminiConfig{
				APIBase: "https://generativelanguage.googleapis.com/v1beta",
				Models:  []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-pro"},
			},
			HuggingFace: HuggingFaceConfig{
				APIBase:  "https://api-inference.huggingface.co",
				AuthBase: "https://huggingface.co",
				Models:   []string{"bigscience/bloom-560m", "distilgpt2", "gpt2"},
			},
			Ollama: OllamaConfig{
				URL:   "http://localhost:11434",
				Model: "llama2",
			},
		},
	}
}

// Load reads config from a JSON file, then overlays env vars.
// A missing file is not an error: defaults plus env are enough to run.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json5.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides overlays env vars onto the config.
// Env vars take precedence over file values.
func (c *Config) applyEnvOverrides() {
	envStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	envStr("LINECLAW_LINE_CHANNEL_ACCESS_TOKEN", &c.Line.ChannelAccessToken)
	envStr("LINECLAW_LINE_CHANNEL_SECRET", &c.Line.ChannelSecret)
	envStr("LINECLAW_OPENAI_API_KEY", &c.Providers.OpenAI.APIKey)
	envStr("LINECLAW_GEMINI_API_KEY", &c.Providers.Gemini.APIKey)
	envStr("LINECLAW_HUGGINGFACE_TOKEN", &c.Providers.HuggingFace.Token)
	envStr("LINECLAW_OLLAMA_URL", &c.Providers.Ollama.URL)
	envStr("LINECLAW_HOST", &c.Gateway.Host)

	if v := os.Getenv("LINECLAW_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Gateway.Port = port
		}
	}
}
