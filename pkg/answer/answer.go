// Package answer implements the Answering Service consumed by local
// dispatch: the router hands over text and relays whatever comes back.
package answer

import (
	"context"
	"log/slog"
	"strings"

	"agenthub/pkg/tools"
)

// Answerer produces a reply for text handled locally.
type Answerer interface {
	Answer(ctx context.Context, text string) (string, error)
}

// Service fronts a delegate Answerer with a calculator fast-path: a
// question that is nothing but arithmetic is computed locally instead of
// burning a model call.
type Service struct {
	delegate Answerer
	logger   *slog.Logger
}

func NewService(delegate Answerer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{delegate: delegate, logger: logger}
}

func (s *Service) Answer(ctx context.Context, text string) (string, error) {
	if expr := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "?")); looksArithmetic(expr) {
		if v, err := tools.Evaluate(expr); err == nil {
			s.logger.Debug("answered via calculator", slog.String("expression", expr))
			return tools.FormatNumber(v), nil
		}
	}
	return s.delegate.Answer(ctx, text)
}

// looksArithmetic is a cheap pre-filter so ordinary prose never reaches the
// expression parser.
func looksArithmetic(text string) bool {
	if text == "" {
		return false
	}
	hasDigit := false
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '(' || r == ')' || r == '.' || r == ' ' || r == '\t':
		default:
			return false
		}
	}
	return hasDigit
}
