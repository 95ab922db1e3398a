package answer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChatClientAnswer(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Paris"}},
			},
		})
	}))
	defer srv.Close()

	c, err := NewChatClient(Config{
		Model:        "gpt-4o-mini",
		BaseURL:      srv.URL,
		APIKey:       "test-key",
		SystemPrompt: "You are concise.",
	})
	if err != nil {
		t.Fatalf("NewChatClient: %v", err)
	}

	got, err := c.Answer(context.Background(), "capital of France?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if got != "Paris" {
		t.Errorf("Answer = %q, want Paris", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want bearer key", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q, want /chat/completions appended to the base", gotPath)
	}
	if gotReq["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v, want gpt-4o-mini", gotReq["model"])
	}
	msgs, _ := gotReq["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v, want system + user", gotReq["messages"])
	}
}

func TestChatClientBaseURLTrailingSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "ok"}},
			},
		})
	}))
	defer srv.Close()

	c, err := NewChatClient(Config{BaseURL: srv.URL + "/v1/", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewChatClient: %v", err)
	}
	if _, err := c.Answer(context.Background(), "hello"); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("path = %q, want /v1/chat/completions", gotPath)
	}
}

func TestChatClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewChatClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewChatClient: %v", err)
	}

	if _, err := c.Answer(context.Background(), "hello"); err == nil {
		t.Fatal("Answer succeeded, want API error")
	}
}

func TestChatClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c, err := NewChatClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewChatClient: %v", err)
	}

	if _, err := c.Answer(context.Background(), "hello"); err == nil {
		t.Fatal("Answer succeeded, want empty-response error")
	}
}

func TestNewChatClientRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewChatClient(Config{}); err == nil {
		t.Fatal("NewChatClient succeeded without API key")
	}
}
