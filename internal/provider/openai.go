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

// openAIProvider speaks the OpenAI-compatible chat-completions wire format,
// shared by OpenAI, Kimi, GLM, DeepSeek, Qwen and other compatible vendors.
type openAIProvider struct {
	apiKey  string
	model   string
	baseURL string
}

func newOpenAIProvider(apiKey, model, baseURL string) *openAIProvider {
	return &openAIProvider{apiKey: apiKey, model: model, baseURL: baseURL}
}

type openAIRequest struct {
	Model       string               `json:"model"`
	Messages    []models.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
	Stream      bool                 `json:"stream"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type openAIStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func (p *openAIProvider) endpoint() string {
	return strings.TrimRight(p.baseURL, "/") + "/chat/completions"
}

func (p *openAIProvider) post(ctx context.Context, messages []models.ChatMessage, opts *ChatOptions, stream bool) (*http.Response, error) {
	url := p.endpoint()

	body, err := json.Marshal(openAIRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: opts.temperature(),
		MaxTokens:   opts.maxTokens(),
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
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

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

func (p *openAIProvider) Chat(ctx context.Context, messages []models.ChatMessage, opts *ChatOptions) (string, error) {
	resp, err := p.post(ctx, messages, opts, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}

	// An empty but well-formed answer is not an error.
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

func (p *openAIProvider) ChatStream(ctx context.Context, messages []models.ChatMessage, opts *ChatOptions, onDelta func(string) error) error {
	resp, err := p.post(ctx, messages, opts, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return forEachDataLine(resp.Body, func(payload string) (bool, error) {
		if payload == "[DONE]" {
			return true, nil
		}

		var chunk openAIStreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// One corrupt vendor frame must not abort a healthy stream.
			log.Printf("[Provider] skipping malformed stream payload: %.200s", payload)
			return false, nil
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			return false, nil
		}
		return false, onDelta(chunk.Choices[0].Delta.Content)
	})
}
