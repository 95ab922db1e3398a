package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecall(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		ex := &Exchange{
			ID:             uuid.NewString(),
			ConversationID: "conv-1",
			Channel:        "a2a",
			Question:       fmt.Sprintf("question %d", i),
			Answer:         fmt.Sprintf("answer %d", i),
			Outcome:        "local",
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}
		if err := s.RecordExchange(ctx, ex); err != nil {
			t.Fatalf("RecordExchange: %v", err)
		}
	}

	got, err := s.RecentExchanges(ctx, "conv-1", 10)
	if err != nil {
		t.Fatalf("RecentExchanges: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d exchanges, want 3", len(got))
	}
	if got[0].Question != "question 0" || got[2].Question != "question 2" {
		t.Errorf("exchanges not in oldest-first order: %v, %v", got[0].Question, got[2].Question)
	}
}

func TestRecentExchangesLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		ex := &Exchange{
			ID:             uuid.NewString(),
			ConversationID: "conv-1",
			Channel:        "query",
			Question:       fmt.Sprintf("q%d", i),
			Answer:         "a",
			Outcome:        "local",
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}
		if err := s.RecordExchange(ctx, ex); err != nil {
			t.Fatalf("RecordExchange: %v", err)
		}
	}

	got, err := s.RecentExchanges(ctx, "conv-1", 2)
	if err != nil {
		t.Fatalf("RecentExchanges: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d exchanges, want 2", len(got))
	}
	// The two most recent, still oldest first.
	if got[0].Question != "q3" || got[1].Question != "q4" {
		t.Errorf("got %q, %q, want q3, q4", got[0].Question, got[1].Question)
	}
}

func TestRecentExchangesScopedToConversation(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, conv := range []string{"conv-1", "conv-2"} {
		ex := &Exchange{
			ID:             uuid.NewString(),
			ConversationID: conv,
			Channel:        "a2a",
			Question:       "q",
			Answer:         "a",
			Outcome:        "local",
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.RecordExchange(ctx, ex); err != nil {
			t.Fatalf("RecordExchange: %v", err)
		}
	}

	got, err := s.RecentExchanges(ctx, "conv-1", 10)
	if err != nil {
		t.Fatalf("RecentExchanges: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d exchanges for conv-1, want 1", len(got))
	}

	n, err := s.CountExchanges(ctx)
	if err != nil {
		t.Fatalf("CountExchanges: %v", err)
	}
	if n != 2 {
		t.Errorf("CountExchanges = %d, want 2", n)
	}
}
