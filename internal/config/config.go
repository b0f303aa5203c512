package config

// Config is the root configuration for the lineclaw relay.
type Config struct {
	Gateway   GatewayConfig   `json:"gateway"`
	Line      LineConfig      `json:"line"`
	Providers ProvidersConfig `json:"providers"`
}

// GatewayConfig configures the HTTP listener.
type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// LineConfig holds LINE Messaging API credentials.
// Both values are required together to enable webhook verification and
// outbound replies. Secrets come from env only — never persisted to the
// config file.
type LineConfig struct {
	ChannelAccessToken string `json:"-"` // from env LINECLAW_LINE_CHANNEL_ACCESS_TOKEN only
	ChannelSecret      string `json:"-"` // from env LINECLAW_LINE_CHANNEL_SECRET only
	APIBase            string `json:"api_base,omitempty"`
}

// Configured reports whether both LINE credentials are present.
func (l LineConfig) Configured() bool {
	return l.ChannelAccessToken != "" && l.ChannelSecret != ""
}

// ProvidersConfig holds per-backend settings. Each credential is
// independently optional; an absent credential disables that one backend.
type ProvidersConfig struct {
	OpenAI      OpenAIConfig      `json:"openai"`
	Gemini      GeminiConfig      `json:"gemini"`
	HuggingFace HuggingFaceConfig `json:"huggingface"`
	Ollama      OllamaConfig      `json:"ollama"`
}

// OpenAIConfig configures the primary backend.
type OpenAIConfig struct {
	APIKey  string `json:"-"` // from env LINECLAW_OPENAI_API_KEY only
	APIBase string `json:"api_base,omitempty"`
	Model   string `json:"model,omitempty"`
}

// GeminiConfig configures the secondary multi-model backend.
type GeminiConfig struct {
	APIKey  string   `json:"-"` // from env LINECLAW_GEMINI_API_KEY only
	APIBase string   `json:"api_base,omitempty"`
	Models  []string `json:"models,omitempty"`
}

// HuggingFaceConfig configures the low-resource inference backend.
type HuggingFaceConfig struct {
	Token    string   `json:"-"` // from env LINECLAW_HUGGINGFACE_TOKEN only
	APIBase  string   `json:"api_base,omitempty"`
	AuthBase string   `json:"auth_base,omitempty"`
	Models   []string `json:"models,omitempty"`
}

// OllamaConfig configures the local-inference backend. Availability is
// determined by reachability, not a credential.
type OllamaConfig struct {
	URL   string `json:"url,omitempty"`
	Model string `json:"model,omitempty"`
}
