package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "agenthub"

// Span names for the stages of handling one inbound envelope. Dispatch and
// answer spans nest under the route span, so a trace shows which leg of the
// decision spent the time.
const (
	SpanRoute    = "a2a.route"
	SpanDispatch = "a2a.dispatch"
	SpanAnswer   = "a2a.answer"
)

// Trace attribute keys for the routing domain.
const (
	attrConversationID = attribute.Key("a2a.conversation_id")
	attrPeerID         = attribute.Key("a2a.peer_id")
	attrOutcome        = attribute.Key("a2a.outcome")
)

func ConversationAttr(conversationID string) attribute.KeyValue {
	return attrConversationID.String(conversationID)
}

func PeerAttr(peerID string) attribute.KeyValue {
	return attrPeerID.String(peerID)
}

func OutcomeAttr(outcome string) attribute.KeyValue {
	return attrOutcome.String(outcome)
}

type TracerConfig struct {
	Enabled  bool
	Endpoint string
	AgentID  string
	Version  string
}

func InitTracer(ctx context.Context, cfg TracerConfig) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithInsecure(),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(cfg.Endpoint))
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating OTLP exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("agenthub"),
			semconv.ServiceVersion(cfg.Version),
			attribute.String("agent.id", cfg.AgentID),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	opts := []trace.SpanStartOption{}
	if len(attrs) > 0 {
		opts = append(opts, trace.WithAttributes(attrs...))
	}
	return Tracer().Start(ctx, name, opts...)
}
