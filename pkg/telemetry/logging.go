package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const loggerKey contextKey = "logger"

// SetupLogger builds the process logger. Every record carries the agent id,
// so logs from a fleet of agent instances can be split back apart after
// aggregation.
func SetupLogger(level, format, agentID string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	if agentID != "" {
		logger = logger.With(slog.String("agent_id", agentID))
	}
	slog.SetDefault(logger)
	return logger
}

// WithConversation scopes a logger to one conversation, so the routing
// decision, dispatch and answering records of a single exchange line up
// under one correlation field.
func WithConversation(logger *slog.Logger, conversationID string) *slog.Logger {
	if conversationID == "" {
		return logger
	}
	return logger.With(slog.String("conversation_id", conversationID))
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
