package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"promptdeck-backend/internal/models"
)

const anthropicVersion = "2023-06-01"

// anthropicProvider speaks the Anthropic Messages wire format.
type anthropicProvider struct {
	apiKey  string
	model   string
	baseURL string
}

func newAnthropicProvider(apiKey, model, baseURL string) *anthropicProvider {
	if baseURL == "" {
		baseURL = providerDefaults["claude"]
	}
	return &anthropicProvider{apiKey: apiKey, model: model, baseURL: baseURL}
}

type anthropicRequest struct {
	Model       string               `json:"model"`
	System      string               `json:"system,omitempty"`
	Messages    []models.ChatMessage `json:"messages"`
	MaxTokens   int                  `json:"max_tokens"`
	Temperature float64              `json:"temperature"`
	Stream      bool                 `json:"stream"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

type anthropicStreamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Text string `json:"text"`
	} `json:"delta"`
}

// convertMessages folds system turns into one top-level system string (joined
// by a blank line) and passes the rest through as the alternating
// user/assistant array the Messages API expects.
func convertMessages(messages []models.ChatMessage) (string, []models.ChatMessage) {
	var system strings.Builder
	converted := make([]models.ChatMessage, 0, len(messages))

	for _, msg := range messages {
		if msg.Role == models.RoleSystem {
			if system.Len() > 0 {
				system.WriteString("\n\n")
			}
			system.WriteString(msg.Content)
		} else {
			converted = append(converted, msg)
		}
	}

	return system.String(), converted
}

func (p *anthropicProvider) endpoint() string {
	return strings.TrimRight(p.baseURL, "/") + "/v1/messages"
}

func (p *anthropicProvider) post(ctx context.Context, messages []models.ChatMessage, opts *ChatOptions, stream bool) (*http.Response, error) {
	url := p.endpoint()
	system, converted := convertMessages(messages)

	body, err := json.Marshal(anthropicRequest{
		Model:       p.model,
		System:      system,
		Messages:    converted,
		MaxTokens:   opts.maxTokens(),
		Temperature: opts.temperature(),
		Stream:      stream,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &ConnectError{URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(text)}
	}

	return resp, nil
}

func (p *anthropicProvider) Chat(ctx context.Context, messages []models.ChatMessage, opts *ChatOptions) (string, error) {
	resp, err := p.post(ctx, messages, opts, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}

	if len(parsed.Content) == 0 {
		return "", nil
	}
	return parsed.Content[0].Text, nil
}

func (p *anthropicProvider) ChatStream(ctx context.Context, messages []models.ChatMessage, opts *ChatOptions, onDelta func(string) error) error {
	resp, err := p.post(ctx, messages, opts, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return forEachDataLine(resp.Body, func(payload string) (bool, error) {
		var event anthropicStreamEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Printf("[Provider] skipping malformed stream payload: %.200s", payload)
			return false, nil
		}
		if event.Type != "content_block_delta" || event.Delta.Text == "" {
			return false, nil
		}
		return false, onDelta(event.Delta.Text)
	})
}
