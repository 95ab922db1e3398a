// Package store persists a plain log of handled exchanges so the agent can
// recall past conversations. Vector search and long-term semantic memory
// live outside this service.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS exchanges (
    id              TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL,
    channel         TEXT NOT NULL,
    question        TEXT NOT NULL,
    answer          TEXT NOT NULL,
    outcome         TEXT NOT NULL,
    created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_exchanges_conversation ON exchanges(conversation_id, created_at);
`

// Exchange is one completed question/answer pair, whichever endpoint or
// routing outcome produced it.
type Exchange struct {
	ID             string
	ConversationID string
	Channel        string
	Question       string
	Answer         string
	Outcome        string
	CreatedAt      time.Time
}

func (s *Store) RecordExchange(ctx context.Context, ex *Exchange) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exchanges (id, conversation_id, channel, question, answer, outcome, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ex.ID, ex.ConversationID, ex.Channel, ex.Question, ex.Answer, ex.Outcome, ex.CreatedAt,
	)
	return err
}

// RecentExchanges returns up to limit exchanges for a conversation, oldest
// first.
func (s *Store) RecentExchanges(ctx context.Context, conversationID string, limit int) ([]Exchange, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, channel, question, answer, outcome, created_at
		 FROM exchanges WHERE conversation_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		conversationID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exchanges []Exchange
	for rows.Next() {
		var ex Exchange
		if err := rows.Scan(&ex.ID, &ex.ConversationID, &ex.Channel, &ex.Question, &ex.Answer, &ex.Outcome, &ex.CreatedAt); err != nil {
			return nil, err
		}
		exchanges = append(exchanges, ex)
	}

	for i, j := 0, len(exchanges)-1; i < j; i, j = i+1, j-1 {
		exchanges[i], exchanges[j] = exchanges[j], exchanges[i]
	}

	return exchanges, rows.Err()
}

func (s *Store) CountExchanges(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exchanges`).Scan(&n)
	return n, err
}
