package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"promptdeck-backend/internal/models"
)

func testMessages() []models.ChatMessage {
	return []models.ChatMessage{
		{Role: models.RoleSystem, Content: "You are helpful."},
		{Role: models.RoleUser, Content: "Hi"},
	}
}

func TestOpenAIChat(t *testing.T) {
	var gotAuth string
	var gotReq openAIRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"Hello there"}}]}`)
	}))
	defer server.Close()

	p := newOpenAIProvider("secret", "gpt-4o", server.URL)
	got, err := p.Chat(context.Background(), testMessages(), nil)
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if got != "Hello there" {
		t.Errorf("Expected 'Hello there', got %q", got)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Expected bearer auth, got %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o" || gotReq.Stream {
		t.Errorf("Unexpected request body: %+v", gotReq)
	}
	if gotReq.Temperature != defaultTemperature || gotReq.MaxTokens != defaultMaxTokens {
		t.Errorf("Expected default generation params, got %+v", gotReq)
	}
}

func TestOpenAIChat_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	p := newOpenAIProvider("k", "m", server.URL)
	got, err := p.Chat(context.Background(), testMessages(), nil)
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if got != "" {
		t.Errorf("Expected empty answer, got %q", got)
	}
}

func TestOpenAIChat_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"bad key"}`)
	}))
	defer server.Close()

	p := newOpenAIProvider("k", "m", server.URL)
	_, err := p.Chat(context.Background(), testMessages(), nil)

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", httpErr.StatusCode)
	}
	if !strings.Contains(httpErr.Body, "bad key") {
		t.Errorf("Expected vendor body preserved, got %q", httpErr.Body)
	}
}

func TestOpenAIChat_ConnectError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	p := newOpenAIProvider("k", "m", server.URL)
	_, err := p.Chat(context.Background(), testMessages(), nil)

	var connErr *ConnectError
	if !errors.As(err, &connErr) {
		t.Fatalf("Expected *ConnectError, got %T: %v", err, err)
	}
	if connErr.Unwrap() == nil {
		t.Error("Expected wrapped transport error")
	}
}

func TestOpenAIChatStream(t *testing.T) {
	chunk := func(content string) string {
		return fmt.Sprintf(`data: {"choices":[{"delta":{"content":%q}}]}`+"\n\n", content)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openAIRequest
		json.NewDecoder(r.Body).Decode(&req)
		if !req.Stream {
			t.Error("Expected stream:true in request")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		// First frame split mid-line across two writes.
		first := chunk("Hel")
		fmt.Fprint(w, first[:10])
		flusher.Flush()
		fmt.Fprint(w, first[10:])
		flusher.Flush()

		fmt.Fprint(w, chunk("lo"))
		fmt.Fprint(w, "data: {malformed\n\n")
		fmt.Fprint(w, `data: {"choices":[]}`+"\n\n")
		fmt.Fprint(w, chunk("!"))
		fmt.Fprint(w, "data: [DONE]\n\n")
		// Anything after the sentinel must be ignored.
		fmt.Fprint(w, chunk("ignored"))
	}))
	defer server.Close()

	p := newOpenAIProvider("k", "m", server.URL)
	var deltas []string
	err := p.ChatStream(context.Background(), testMessages(), nil, func(delta string) error {
		deltas = append(deltas, delta)
		return nil
	})
	if err != nil {
		t.Fatalf("ChatStream returned error: %v", err)
	}

	want := []string{"Hel", "lo", "!"}
	if len(deltas) != len(want) {
		t.Fatalf("Expected deltas %v, got %v", want, deltas)
	}
	for i := range want {
		if deltas[i] != want[i] {
			t.Errorf("Delta %d: expected %q, got %q", i, want[i], deltas[i])
		}
	}
}

func TestOpenAIChatStream_CallbackErrorAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"a"}}]}`+"\n\n")
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"b"}}]}`+"\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	p := newOpenAIProvider("k", "m", server.URL)
	abort := errors.New("client gone")
	var calls int
	err := p.ChatStream(context.Background(), testMessages(), nil, func(delta string) error {
		calls++
		return abort
	})

	if !errors.Is(err, abort) {
		t.Fatalf("Expected callback error surfaced, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected stream aborted after first delta, got %d calls", calls)
	}
}

func TestOpenAIChatStream_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, "rate limited")
	}))
	defer server.Close()

	p := newOpenAIProvider("k", "m", server.URL)
	err := p.ChatStream(context.Background(), testMessages(), nil, func(string) error { return nil })

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", httpErr.StatusCode)
	}
}

func TestOpenAIEndpoint_TrailingSlash(t *testing.T) {
	p := newOpenAIProvider("k", "m", "https://api.example.com/v1/")
	if got := p.endpoint(); got != "https://api.example.com/v1/chat/completions" {
		t.Errorf("Unexpected endpoint %q", got)
	}
}
