package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EventAgentRegister = "agent_register"
	EventRouteLocal    = "route_local"
	EventRouteRemote   = "route_remote"
	EventRouteFallback = "route_fallback"
	EventRouteNotFound = "route_not_found"
	EventDispatchFail  = "dispatch_fail"
	EventAnswerFail    = "answer_fail"
	EventQuery         = "query"
)

type Entry struct {
	ID             string    `gorm:"primaryKey;column:id"`
	Timestamp      time.Time `gorm:"column:timestamp;not null;index:idx_audit_timestamp"`
	EventType      string    `gorm:"column:event_type;not null"`
	ConversationID string    `gorm:"column:conversation_id;not null;default:''"`
	AgentID        string    `gorm:"column:agent_id;not null;default:''"`
	Detail         string    `gorm:"column:detail;not null;default:''"`
}

func (Entry) TableName() string {
	return "audit_log"
}

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*Logger, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("audit: running migrations: %w", err)
	}

	return &Logger{db: db}, nil
}

func (l *Logger) Log(ctx context.Context, eventType, conversationID, agentID string, detail any) error {
	var detailStr string
	switch v := detail.(type) {
	case string:
		detailStr = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			detailStr = fmt.Sprintf("%v", v)
		} else {
			detailStr = string(b)
		}
	}

	entry := &Entry{
		ID:             uuid.NewString(),
		Timestamp:      time.Now().UTC(),
		EventType:      eventType,
		ConversationID: conversationID,
		AgentID:        agentID,
		Detail:         detailStr,
	}

	return l.db.WithContext(ctx).Create(entry).Error
}

type Filter struct {
	EventType      string
	ConversationID string
	AgentID        string
	Since          time.Time
	Until          time.Time
	Limit          int
}

func (l *Logger) Query(ctx context.Context, f Filter) ([]Entry, error) {
	q := l.db.WithContext(ctx)

	if f.EventType != "" {
		q = q.Where("event_type = ?", f.EventType)
	}
	if f.ConversationID != "" {
		q = q.Where("conversation_id = ?", f.ConversationID)
	}
	if f.AgentID != "" {
		q = q.Where("agent_id = ?", f.AgentID)
	}
	if !f.Since.IsZero() {
		q = q.Where("timestamp >= ?", f.Since)
	}
	if !f.Until.IsZero() {
		q = q.Where("timestamp <= ?", f.Until)
	}

	q = q.Order("timestamp DESC")

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var entries []Entry
	err := q.Find(&entries).Error
	return entries, err
}
