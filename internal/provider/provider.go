package provider

import (
	"context"
	"net/http"
	"strings"

	"promptdeck-backend/internal/models"
)

// Default generation parameters applied when the caller leaves them unset.
const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 4096
)

// ChatOptions tunes a single model call. Nil pointer fields fall back to the
// defaults above.
type ChatOptions struct {
	Temperature *float64
	MaxTokens   *int
}

func (o *ChatOptions) temperature() float64 {
	if o == nil || o.Temperature == nil {
		return defaultTemperature
	}
	return *o.Temperature
}

func (o *ChatOptions) maxTokens() int {
	if o == nil || o.MaxTokens == nil {
		return defaultMaxTokens
	}
	return *o.MaxTokens
}

// Provider is the single capability surface over the vendor wire formats:
// a one-shot answer, or a live sequence of text fragments pushed through
// onDelta in arrival order. onDelta returning an error aborts the stream.
type Provider interface {
	Chat(ctx context.Context, messages []models.ChatMessage, opts *ChatOptions) (string, error)
	ChatStream(ctx context.Context, messages []models.ChatMessage, opts *ChatOptions, onDelta func(delta string) error) error
}

// Config is the per-request provider handle resolved from settings.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// Known provider base URLs. Every family except claude speaks the
// OpenAI-compatible chat-completions shape.
var providerDefaults = map[string]string{
	"openai":   "https://api.openai.com/v1",
	"kimi":     "https://api.moonshot.cn/v1",
	"glm":      "https://open.bigmodel.cn/api/paas/v4",
	"deepseek": "https://api.deepseek.com/v1",
	"qwen":     "https://dashscope.aliyuncs.com/compatible-mode/v1",
	"claude":   "https://api.anthropic.com",
}

// Responses stream, so the shared client carries no response timeout; request
// lifetimes are bounded by the caller's context.
var httpClient = &http.Client{}

// New resolves a Provider from configuration. The claude family uses the
// Anthropic Messages format, all other families the OpenAI-compatible format.
func New(cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, &ConfigError{Message: "API key is not configured"}
	}

	name := strings.ToLower(cfg.Provider)
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = providerDefaults[name]
	}

	if name == "claude" {
		return newAnthropicProvider(cfg.APIKey, cfg.Model, baseURL), nil
	}

	if baseURL == "" {
		baseURL = providerDefaults["openai"]
	}
	return newOpenAIProvider(cfg.APIKey, cfg.Model, baseURL), nil
}

// FromSettings builds a Provider from the stored global settings row.
func FromSettings(s *models.GlobalSettings) (Provider, error) {
	return New(Config{
		Provider: s.Provider,
		APIKey:   s.APIKey,
		Model:    s.Model,
		BaseURL:  s.BaseURL,
	})
}
