package a2a

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"agenthub/pkg/telemetry"
)

// Answerer is the external collaborator that handles messages staying
// local. It may consult memory, tools or a hosted model; the router treats
// it as an opaque call.
type Answerer interface {
	Answer(ctx context.Context, text string) (string, error)
}

// Routing outcomes, used for metrics labels and audit detail.
const (
	OutcomeLocal          = "local"
	OutcomeRemote         = "remote"
	OutcomeFallback       = "fallback"
	OutcomeNotFound       = "not_found"
	OutcomeDispatchFailed = "dispatch_failed"
	OutcomeAnswerFailed   = "answer_failed"
)

// Result pairs the single outbound envelope with what happened, so the
// transport layer can record it without re-deriving the decision.
type Result struct {
	Reply   MessageEnvelope
	Outcome string
	Target  string
}

type RouterConfig struct {
	Self       AgentIdentity
	Registry   *Registry
	Dispatcher Dispatcher
	Answerer   Answerer

	// StrictMentions turns the unknown-mention fallback into an explicit
	// "agent not found" reply. Default is off: an unresolved mention is
	// handled as an ordinary local question.
	StrictMentions bool

	Logger *slog.Logger
}

// Router drives one inbound envelope from Received to Responded: parse the
// text against a registry snapshot, then either forward to the mentioned
// peer or delegate to the local answerer. Every path ends in exactly one
// reply envelope; failures become diagnostic replies, never transport
// errors.
type Router struct {
	self       AgentIdentity
	registry   *Registry
	dispatcher Dispatcher
	answerer   Answerer
	strict     bool
	logger     *slog.Logger
}

func NewRouter(cfg RouterConfig) *Router {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Router{
		self:       cfg.Self,
		registry:   cfg.Registry,
		dispatcher: cfg.Dispatcher,
		answerer:   cfg.Answerer,
		strict:     cfg.StrictMentions,
		logger:     cfg.Logger,
	}
}

// Route handles one inbound envelope. The envelope must already be
// validated. The registry is read once as a snapshot; the snapshot also
// supplies the target url, so no lock is held across the network call.
func (r *Router) Route(ctx context.Context, in MessageEnvelope) Result {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanRoute,
		telemetry.ConversationAttr(in.ConversationID),
	)
	defer span.End()

	log := telemetry.WithConversation(r.logger, in.ConversationID)
	known := r.registry.List()
	decision := ParseMention(in.Content.Text, known)

	var res Result
	switch {
	case decision.Remote():
		res = r.dispatchRemote(ctx, log, in, decision.Target, known[decision.Target])
	case decision.Mention != "" && r.strict:
		log.Info("mention does not resolve, strict mode",
			slog.String("mention", decision.Mention),
		)
		text := fmt.Sprintf("Agent %q is not registered here; register it via /agents/register or drop the mention.", decision.Mention)
		res = Result{
			Reply:   NewAgentReply(r.self, in.ConversationID, text),
			Outcome: OutcomeNotFound,
			Target:  decision.Mention,
		}
	case decision.Mention != "":
		// Unresolved mention degrades to local handling: availability
		// over strictness.
		log.Debug("mention does not resolve, handling locally",
			slog.String("mention", decision.Mention),
		)
		res = r.answerLocal(ctx, log, in, OutcomeFallback)
	default:
		res = r.answerLocal(ctx, log, in, OutcomeLocal)
	}

	telemetry.Metrics.RoutingDecisions.WithLabelValues(res.Outcome).Inc()
	span.SetAttributes(telemetry.OutcomeAttr(res.Outcome))
	return res
}

func (r *Router) answerLocal(ctx context.Context, log *slog.Logger, in MessageEnvelope, outcome string) Result {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanAnswer)
	defer span.End()

	start := time.Now()
	text, err := r.answerer.Answer(ctx, in.Content.Text)
	telemetry.Metrics.AnswerDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error("answering service failed", slog.String("err", err.Error()))
		telemetry.Metrics.ErrorsTotal.WithLabelValues("answer").Inc()
		return Result{
			Reply:   NewAgentReply(r.self, in.ConversationID, "Sorry, I encountered an error processing your message."),
			Outcome: OutcomeAnswerFailed,
		}
	}
	return Result{
		Reply:   NewAgentReply(r.self, in.ConversationID, text),
		Outcome: outcome,
	}
}

func (r *Router) dispatchRemote(ctx context.Context, log *slog.Logger, in MessageEnvelope, target, targetURL string) Result {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanDispatch,
		telemetry.PeerAttr(target),
	)
	defer span.End()

	log.Info("forwarding message to peer", slog.String("target", target))

	forwarded := in
	sender := r.self
	forwarded.Sender = &sender

	start := time.Now()
	reply, err := r.dispatcher.Forward(ctx, targetURL, forwarded)
	telemetry.Metrics.DispatchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		var failure *RoutingFailure
		if !errors.As(err, &failure) {
			failure = &RoutingFailure{Reason: ReasonUnreachable, Target: target, Err: err}
		}
		log.Warn("remote dispatch failed",
			slog.String("target", target),
			slog.String("reason", string(failure.Reason)),
			slog.String("err", failure.Error()),
		)
		telemetry.Metrics.DispatchFailures.WithLabelValues(string(failure.Reason)).Inc()
		return Result{
			Reply:   NewAgentReply(r.self, in.ConversationID, failureText(target, failure.Reason)),
			Outcome: OutcomeDispatchFailed,
			Target:  target,
		}
	}

	// The peer's text is relayed verbatim and never re-parsed for further
	// mentions: one hop per inbound request, so routing cycles cannot form.
	return Result{
		Reply:   NewAgentReply(r.self, in.ConversationID, reply.Content.Text),
		Outcome: OutcomeRemote,
		Target:  target,
	}
}

func failureText(target string, reason FailureReason) string {
	switch reason {
	case ReasonTimeout:
		return fmt.Sprintf("Agent @%s did not answer in time.", target)
	case ReasonBadStatus, ReasonBadBody:
		return fmt.Sprintf("Agent @%s returned an invalid response.", target)
	default:
		return fmt.Sprintf("Agent @%s could not be reached.", target)
	}
}
