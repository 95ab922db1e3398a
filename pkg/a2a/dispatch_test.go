package a2a

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestForwardSuccess(t *testing.T) {
	var received MessageEnvelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decoding forwarded envelope: %v", err)
		}
		reply := NewAgentReply(AgentIdentity{ID: "bob"}, received.ConversationID, "hi back")
		json.NewEncoder(w).Encode(reply)
	}))
	defer srv.Close()

	d := NewHTTPDispatcher(5 * time.Second)
	env := MessageEnvelope{
		Content:        MessageContent{Text: "hey @bob", Type: ContentTypeText},
		Role:           RoleUser,
		ConversationID: "conv-1",
	}

	reply, err := d.Forward(context.Background(), srv.URL, env)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if received.Content.Text != "hey @bob" {
		t.Errorf("peer received %q, want original text", received.Content.Text)
	}
	if reply.Content.Text != "hi back" {
		t.Errorf("reply text = %q, want %q", reply.Content.Text, "hi back")
	}
	if reply.ConversationID != "conv-1" {
		t.Errorf("reply ConversationID = %q, want conv-1", reply.ConversationID)
	}
}

func TestForwardBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewHTTPDispatcher(5 * time.Second)
	_, err := d.Forward(context.Background(), srv.URL, inbound("hey"))

	assertFailureReason(t, err, ReasonBadStatus)
}

func TestForwardBadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "this is not json"},
		{"empty object", "{}"},
		{"empty text", `{"content":{"text":"","type":"text"},"role":"agent"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			d := NewHTTPDispatcher(5 * time.Second)
			_, err := d.Forward(context.Background(), srv.URL, inbound("hey"))

			assertFailureReason(t, err, ReasonBadBody)
		})
	}
}

func TestForwardTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	d := NewHTTPDispatcher(50 * time.Millisecond)
	_, err := d.Forward(context.Background(), srv.URL, inbound("hey"))

	assertFailureReason(t, err, ReasonTimeout)
}

func TestForwardUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	d := NewHTTPDispatcher(5 * time.Second)
	_, err := d.Forward(context.Background(), url, inbound("hey"))

	assertFailureReason(t, err, ReasonUnreachable)
}

func assertFailureReason(t *testing.T, err error, want FailureReason) {
	t.Helper()
	if err == nil {
		t.Fatal("Forward succeeded, want RoutingFailure")
	}
	var failure *RoutingFailure
	if !errors.As(err, &failure) {
		t.Fatalf("err = %T, want *RoutingFailure", err)
	}
	if failure.Reason != want {
		t.Errorf("Reason = %q, want %q", failure.Reason, want)
	}
}
