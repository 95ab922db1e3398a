package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var Metrics = struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RoutingDecisions *prometheus.CounterVec
	DispatchFailures *prometheus.CounterVec
	DispatchDuration prometheus.Histogram
	AnswerDuration   prometheus.Histogram
	RegisteredPeers  prometheus.Gauge
	ErrorsTotal      *prometheus.CounterVec
}{
	RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agenthub",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by endpoint and status.",
	}, []string{"endpoint", "status"}),

	RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "agenthub",
		Name:      "request_duration_seconds",
		Help:      "Request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"}),

	RoutingDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agenthub",
		Name:      "routing_decisions_total",
		Help:      "Routing decisions by outcome (local, remote, fallback, not_found, dispatch_failed, answer_failed).",
	}, []string{"outcome"}),

	DispatchFailures: promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agenthub",
		Name:      "dispatch_failures_total",
		Help:      "Remote dispatch failures by reason.",
	}, []string{"reason"}),

	DispatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "agenthub",
		Name:      "dispatch_duration_seconds",
		Help:      "Remote hop duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}),

	AnswerDuration: promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "agenthub",
		Name:      "answer_duration_seconds",
		Help:      "Local answering service duration in seconds.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}),

	RegisteredPeers: promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "agenthub",
		Name:      "registered_peers",
		Help:      "Number of peer agents currently registered.",
	}),

	ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agenthub",
		Name:      "errors_total",
		Help:      "Total errors by component.",
	}, []string{"component"}),
}
