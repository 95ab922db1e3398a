package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agenthub/pkg/a2a"
	"agenthub/pkg/answer"
	"agenthub/pkg/audit"
	"agenthub/pkg/store"
	"agenthub/pkg/telemetry"
)

type Gateway struct {
	server     *http.Server
	router     *chi.Mux
	self       a2a.AgentIdentity
	a2aRouter  *a2a.Router
	registry   *a2a.Registry
	facts      *a2a.FactsBuilder
	answerer   answer.Answerer
	toolCount  func() int
	store      *store.Store
	auditLog   *audit.Logger
	logger     *slog.Logger
	version    string
	a2aEnabled bool
}

type Config struct {
	Bind       string
	Port       int
	Self       a2a.AgentIdentity
	Router     *a2a.Router
	Registry   *a2a.Registry
	Facts      *a2a.FactsBuilder
	Answerer   answer.Answerer
	ToolCount  func() int
	Store      *store.Store
	AuditLog   *audit.Logger
	Logger     *slog.Logger
	Version    string
	A2AEnabled bool
}

func New(cfg Config) *Gateway {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ToolCount == nil {
		cfg.ToolCount = func() int { return 0 }
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	g := &Gateway{
		router:     r,
		self:       cfg.Self,
		a2aRouter:  cfg.Router,
		registry:   cfg.Registry,
		facts:      cfg.Facts,
		answerer:   cfg.Answerer,
		toolCount:  cfg.ToolCount,
		store:      cfg.Store,
		auditLog:   cfg.AuditLog,
		logger:     cfg.Logger,
		version:    cfg.Version,
		a2aEnabled: cfg.A2AEnabled,
	}

	g.registerRoutes()

	addr := resolveAddr(cfg.Bind, cfg.Port)
	g.server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return g
}

func (g *Gateway) registerRoutes() {
	g.router.Use(g.metricsMiddleware)

	g.router.Get("/", g.handleRoot)
	g.router.Get("/health", g.handleHealth)
	g.router.Handle("/metrics", promhttp.Handler())

	g.router.Post("/a2a", g.handleA2A)
	g.router.Post("/agents/register", g.handleRegister)
	g.router.Get("/agents", g.handleAgents)
	g.router.Get("/agentfacts", g.handleAgentFacts)
	g.router.Post("/query", g.handleQuery)
}

// Handler exposes the route tree for tests.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

func (g *Gateway) Start(ctx context.Context) error {
	logger := telemetry.FromContext(ctx)
	logger.Info("gateway listening", slog.String("addr", g.server.Addr))

	ln, err := net.Listen("tcp", g.server.Addr)
	if err != nil {
		return fmt.Errorf("gateway listen: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := g.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return g.shutdown()
	case err := <-errCh:
		return err
	}
}

func (g *Gateway) shutdown() error {
	g.logger.Info("gateway shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return g.server.Shutdown(ctx)
}

func (g *Gateway) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := chi.RouteContext(r.Context()).RoutePattern()
		if endpoint == "" {
			endpoint = r.URL.Path
		}
		telemetry.Metrics.RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(ww.Status())).Inc()
		telemetry.Metrics.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	})
}

func resolveAddr(bind string, port int) string {
	var host string
	switch bind {
	case "lan", "all":
		host = "0.0.0.0"
	case "loopback", "":
		host = "127.0.0.1"
	default:
		host = bind
	}
	return fmt.Sprintf("%s:%d", host, port)
}

func updateRegistryGauge(total int) {
	telemetry.Metrics.RegisteredPeers.Set(float64(total))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
