package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"promptdeck-backend/internal/models"
)

func TestConvertMessages(t *testing.T) {
	system, converted := convertMessages([]models.ChatMessage{
		{Role: models.RoleSystem, Content: "Rule one."},
		{Role: models.RoleUser, Content: "Hi"},
		{Role: models.RoleSystem, Content: "Rule two."},
		{Role: models.RoleAssistant, Content: "Hello"},
	})

	if system != "Rule one.\n\nRule two." {
		t.Errorf("Expected system turns joined by blank line, got %q", system)
	}
	if len(converted) != 2 {
		t.Fatalf("Expected 2 non-system turns, got %d", len(converted))
	}
	if converted[0].Role != models.RoleUser || converted[1].Role != models.RoleAssistant {
		t.Errorf("Expected turn order preserved, got %+v", converted)
	}
}

func TestConvertMessages_NoSystemTurns(t *testing.T) {
	system, converted := convertMessages([]models.ChatMessage{
		{Role: models.RoleUser, Content: "Hi"},
	})
	if system != "" {
		t.Errorf("Expected empty system string, got %q", system)
	}
	if len(converted) != 1 {
		t.Errorf("Expected 1 turn, got %d", len(converted))
	}
}

func TestAnthropicChat(t *testing.T) {
	var gotKey, gotVersion string
	var gotReq anthropicRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected /v1/messages, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		fmt.Fprint(w, `{"content":[{"text":"Greetings"}]}`)
	}))
	defer server.Close()

	p := newAnthropicProvider("secret", "claude-sonnet-4", server.URL)
	got, err := p.Chat(context.Background(), testMessages(), nil)
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if got != "Greetings" {
		t.Errorf("Expected 'Greetings', got %q", got)
	}
	if gotKey != "secret" {
		t.Errorf("Expected x-api-key header, got %q", gotKey)
	}
	if gotVersion != anthropicVersion {
		t.Errorf("Expected anthropic-version %q, got %q", anthropicVersion, gotVersion)
	}
	if gotReq.System != "You are helpful." {
		t.Errorf("Expected system turn folded to top level, got %q", gotReq.System)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != models.RoleUser {
		t.Errorf("Expected system turn removed from messages, got %+v", gotReq.Messages)
	}
}

func TestAnthropicChatStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: message_start\n")
		fmt.Fprint(w, `data: {"type":"message_start"}`+"\n\n")
		fmt.Fprint(w, `data: {"type":"content_block_delta","delta":{"text":"Hel"}}`+"\n\n")
		fmt.Fprint(w, "data: not json at all\n\n")
		fmt.Fprint(w, `data: {"type":"content_block_delta","delta":{"text":"lo"}}`+"\n\n")
		fmt.Fprint(w, `data: {"type":"message_stop"}`+"\n\n")
	}))
	defer server.Close()

	p := newAnthropicProvider("k", "m", server.URL)
	var deltas []string
	err := p.ChatStream(context.Background(), testMessages(), nil, func(delta string) error {
		deltas = append(deltas, delta)
		return nil
	})
	if err != nil {
		t.Fatalf("ChatStream returned error: %v", err)
	}

	want := []string{"Hel", "lo"}
	if len(deltas) != len(want) {
		t.Fatalf("Expected deltas %v, got %v", want, deltas)
	}
	for i := range want {
		if deltas[i] != want[i] {
			t.Errorf("Delta %d: expected %q, got %q", i, want[i], deltas[i])
		}
	}
}

func TestAnthropicChatStream_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "overloaded")
	}))
	defer server.Close()

	p := newAnthropicProvider("k", "m", server.URL)
	err := p.ChatStream(context.Background(), testMessages(), nil, func(string) error { return nil })

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.StatusCode != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", httpErr.StatusCode)
	}
}

func TestAnthropicDefaultBaseURL(t *testing.T) {
	p := newAnthropicProvider("k", "m", "")
	if p.baseURL != "https://api.anthropic.com" {
		t.Errorf("Expected Anthropic default base URL, got %q", p.baseURL)
	}
}
