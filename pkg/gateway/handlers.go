package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"agenthub/pkg/a2a"
	"agenthub/pkg/audit"
	"agenthub/pkg/store"
)

func (g *Gateway) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agent_id":     g.self.ID,
		"agent_name":   g.self.Name,
		"version":      g.version,
		"a2a_enabled":  g.a2aEnabled,
		"known_agents": g.registry.Size(),
		"endpoints": map[string]string{
			"health":     "GET /health",
			"a2a":        "POST /a2a",
			"register":   "POST /agents/register",
			"agents":     "GET /agents",
			"agentfacts": "GET /agentfacts",
			"query":      "POST /query",
		},
	})
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":         "healthy",
		"memory_enabled": g.store != nil,
		"tools_count":    g.toolCount(),
	}
	if g.store != nil {
		if n, err := g.store.CountExchanges(r.Context()); err == nil {
			resp["exchanges_recorded"] = n
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (g *Gateway) handleA2A(w http.ResponseWriter, r *http.Request) {
	var env a2a.MessageEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if env.Content.Type == "" {
		env.Content.Type = a2a.ContentTypeText
	}
	if err := env.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if env.ConversationID == "" {
		env.ConversationID = uuid.NewString()
	}

	result := g.a2aRouter.Route(r.Context(), env)

	g.recordExchange(r.Context(), "a2a", env.ConversationID, env.Content.Text, result.Reply.Content.Text, result.Outcome)
	g.auditRouting(r.Context(), env.ConversationID, result)

	writeJSON(w, http.StatusOK, result.Reply)
}

func (g *Gateway) handleRegister(w http.ResponseWriter, r *http.Request) {
	agentID := r.URL.Query().Get("agent_id")
	agentURL := r.URL.Query().Get("agent_url")
	if agentID == "" || agentURL == "" {
		writeError(w, http.StatusBadRequest, "agent_id and agent_url are required")
		return
	}

	total, err := g.registry.Register(agentID, agentURL)
	if err != nil {
		if errors.Is(err, a2a.ErrInvalidRegistration) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	g.logger.Info("registered peer agent",
		slog.String("agent_id", agentID),
		slog.String("agent_url", agentURL),
		slog.Int("total", total),
	)
	g.auditEvent(r.Context(), audit.EventAgentRegister, "", agentID, agentURL)
	updateRegistryGauge(total)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":            "Agent '" + agentID + "' registered",
		"total_known_agents": total,
	})
}

func (g *Gateway) handleAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"my_agent_id":       g.self.ID,
		"my_agent_name":     g.self.Name,
		"my_agent_username": g.self.Username,
		"known_agents":      g.registry.List(),
	})
}

func (g *Gateway) handleAgentFacts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, g.facts.Build())
}

type queryRequest struct {
	Question string `json:"question"`
	UserID   string `json:"user_id"`
}

type queryResponse struct {
	Answer         string  `json:"answer"`
	Timestamp      string  `json:"timestamp"`
	ProcessingTime float64 `json:"processing_time"`
}

func (g *Gateway) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.UserID == "" {
		req.UserID = "anonymous"
	}

	start := time.Now()
	text, err := g.answerer.Answer(r.Context(), req.Question)
	if err != nil {
		g.logger.Error("query failed",
			slog.String("user_id", req.UserID),
			slog.String("err", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "error processing query: "+err.Error())
		return
	}

	g.recordExchange(r.Context(), "query", req.UserID, req.Question, text, a2a.OutcomeLocal)
	g.auditEvent(r.Context(), audit.EventQuery, req.UserID, "", req.Question)

	writeJSON(w, http.StatusOK, queryResponse{
		Answer:         text,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		ProcessingTime: time.Since(start).Seconds(),
	})
}

func (g *Gateway) recordExchange(ctx context.Context, channel, conversationID, question, answer, outcome string) {
	if g.store == nil {
		return
	}
	ex := &store.Exchange{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Channel:        channel,
		Question:       question,
		Answer:         answer,
		Outcome:        outcome,
		CreatedAt:      time.Now().UTC(),
	}
	if err := g.store.RecordExchange(ctx, ex); err != nil {
		g.logger.Warn("failed to record exchange",
			slog.String("conversation_id", conversationID),
			slog.String("err", err.Error()),
		)
	}
}

func (g *Gateway) auditRouting(ctx context.Context, conversationID string, result a2a.Result) {
	if g.auditLog == nil {
		return
	}
	event := map[string]string{
		a2a.OutcomeLocal:          audit.EventRouteLocal,
		a2a.OutcomeRemote:         audit.EventRouteRemote,
		a2a.OutcomeFallback:       audit.EventRouteFallback,
		a2a.OutcomeNotFound:       audit.EventRouteNotFound,
		a2a.OutcomeDispatchFailed: audit.EventDispatchFail,
		a2a.OutcomeAnswerFailed:   audit.EventAnswerFail,
	}[result.Outcome]
	if event == "" {
		return
	}
	g.auditEvent(ctx, event, conversationID, result.Target, "outcome="+result.Outcome)
}

func (g *Gateway) auditEvent(ctx context.Context, eventType, conversationID, agentID string, detail any) {
	if g.auditLog == nil {
		return
	}
	if err := g.auditLog.Log(ctx, eventType, conversationID, agentID, detail); err != nil {
		g.logger.Warn("failed to write audit entry",
			slog.String("event", eventType),
			slog.String("err", err.Error()),
		)
	}
}
