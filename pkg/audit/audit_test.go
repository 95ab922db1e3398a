package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testLogger(t *testing.T) *Logger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	l, err := New(db)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func TestLogAndQuery(t *testing.T) {
	l := testLogger(t)
	ctx := context.Background()

	if err := l.Log(ctx, EventAgentRegister, "", "bob", "http://bob.example/a2a"); err != nil {
		t.Fatalf("Log: %v", err)
	}
	if err := l.Log(ctx, EventRouteRemote, "conv-1", "bob", "outcome=remote"); err != nil {
		t.Fatalf("Log: %v", err)
	}

	entries, err := l.Query(ctx, Filter{EventType: EventAgentRegister})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].AgentID != "bob" {
		t.Errorf("AgentID = %q, want bob", entries[0].AgentID)
	}
	if entries[0].Detail != "http://bob.example/a2a" {
		t.Errorf("Detail = %q, want url", entries[0].Detail)
	}
}

func TestLogMarshalsStructuredDetail(t *testing.T) {
	l := testLogger(t)
	ctx := context.Background()

	detail := map[string]string{"target": "bob", "reason": "timeout"}
	if err := l.Log(ctx, EventDispatchFail, "conv-1", "bob", detail); err != nil {
		t.Fatalf("Log: %v", err)
	}

	entries, err := l.Query(ctx, Filter{EventType: EventDispatchFail})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Detail != `{"reason":"timeout","target":"bob"}` {
		t.Errorf("Detail = %q, want JSON form", entries[0].Detail)
	}
}

func TestQueryFilters(t *testing.T) {
	l := testLogger(t)
	ctx := context.Background()

	for _, conv := range []string{"conv-1", "conv-2"} {
		if err := l.Log(ctx, EventRouteLocal, conv, "", "outcome=local"); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	entries, err := l.Query(ctx, Filter{ConversationID: "conv-2"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries for conv-2, want 1", len(entries))
	}

	entries, err = l.Query(ctx, Filter{Since: time.Now().UTC().Add(time.Hour)})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d future entries, want 0", len(entries))
	}

	entries, err = l.Query(ctx, Filter{Limit: 1})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries with limit 1, want 1", len(entries))
	}
}
