package agenthub

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"agenthub/pkg/a2a"
	"agenthub/pkg/answer"
	"agenthub/pkg/audit"
	"agenthub/pkg/config"
	"agenthub/pkg/gateway"
	"agenthub/pkg/store"
	"agenthub/pkg/telemetry"
	"agenthub/pkg/tools"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the agenthub gateway",
	RunE:  runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := config.EnsureDataDir(); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	logger := telemetry.SetupLogger(cfg.Log.Level, cfg.Log.Format, cfg.Agent.ID, nil)
	logger.Info("starting agenthub gateway",
		slog.String("version", version),
		slog.String("agent_id", cfg.Agent.ID),
		slog.Int("port", cfg.Gateway.Port),
		slog.String("bind", cfg.Gateway.Bind),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracer, err := telemetry.InitTracer(ctx, telemetry.TracerConfig{
		Enabled:  cfg.Tracing.Enabled,
		Endpoint: cfg.Tracing.Endpoint,
		AgentID:  cfg.Agent.ID,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	defer shutdownTracer(context.Background())

	st, err := store.New(cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("opening exchange store: %w", err)
	}
	defer st.Close()

	auditDB, err := gorm.Open(sqlite.Open(cfg.Store.AuditDSN), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return fmt.Errorf("opening audit database: %w", err)
	}
	auditLog, err := audit.New(auditDB)
	if err != nil {
		return fmt.Errorf("initializing audit log: %w", err)
	}

	toolReg := buildTools(cfg, logger)

	apiKey := os.Getenv(cfg.Answer.APIKeyEnv)
	chat, err := answer.NewChatClient(answer.Config{
		Model:        cfg.Answer.Model,
		BaseURL:      cfg.Answer.BaseURL,
		APIKey:       apiKey,
		SystemPrompt: cfg.Answer.SystemPrompt,
		Temperature:  cfg.Answer.Temperature,
		MaxTokens:    cfg.Answer.MaxTokens,
		Timeout:      cfg.AnswerTimeout(),
	})
	if err != nil {
		return fmt.Errorf("initializing answering service: %w", err)
	}
	answerer := answer.NewService(chat, logger)

	self := a2a.AgentIdentity{
		ID:       cfg.Agent.ID,
		Name:     cfg.Agent.Name,
		Username: cfg.Agent.Username,
		URL:      cfg.Agent.ExternalURL + "/a2a",
	}
	registry := a2a.NewRegistry(self.ID)
	router := a2a.NewRouter(a2a.RouterConfig{
		Self:           self,
		Registry:       registry,
		Dispatcher:     a2a.NewHTTPDispatcher(cfg.DispatchTimeout()),
		Answerer:       answerer,
		StrictMentions: cfg.A2A.StrictMentions,
		Logger:         logger,
	})

	facts, err := buildFacts(cfg, toolReg)
	if err != nil {
		return fmt.Errorf("initializing agent facts: %w", err)
	}

	gw := gateway.New(gateway.Config{
		Bind:       cfg.Gateway.Bind,
		Port:       cfg.Gateway.Port,
		Self:       self,
		Router:     router,
		Registry:   registry,
		Facts:      facts,
		Answerer:   answerer,
		ToolCount:  toolReg.Count,
		Store:      st,
		AuditLog:   auditLog,
		Logger:     logger,
		Version:    version,
		A2AEnabled: cfg.A2A.Enabled,
	})

	return gw.Start(telemetry.WithLogger(ctx, logger))
}

func buildTools(cfg *config.Config, logger *slog.Logger) *tools.Registry {
	reg := tools.NewRegistry()
	reg.Register(&tools.CalculatorTool{})
	reg.Register(&tools.ReadDocumentTool{})

	if cfg.Tools.Multimodal {
		client, err := tools.NewOpenAIClient(os.Getenv(cfg.Answer.APIKeyEnv), "", cfg.AnswerTimeout())
		if err != nil {
			logger.Warn("multimodal tools disabled", slog.String("err", err.Error()))
			return reg
		}
		reg.Register(&tools.ImageGenerationTool{Client: client})
		reg.Register(&tools.ImageAnalysisTool{Client: client})
		reg.Register(&tools.TranscribeAudioTool{Client: client})
		reg.Register(&tools.TextToSpeechTool{
			Client:    client,
			Voice:     cfg.Tools.Voice,
			OutputDir: cfg.Tools.OutputDir,
		})
	}

	return reg
}

func buildFacts(cfg *config.Config, toolReg *tools.Registry) (*a2a.FactsBuilder, error) {
	return a2a.NewFactsBuilder(a2a.FactsConfig{
		ID:           cfg.Agent.ID,
		Label:        cfg.Facts.Label,
		Description:  cfg.Facts.Description,
		Version:      cfg.Facts.Version,
		ProviderName: cfg.Facts.ProviderName,
		Jurisdiction: cfg.Facts.Jurisdiction,
		BaseURL:      cfg.Agent.ExternalURL,
		Metrics: a2a.FactsMetrics{
			LatencyP95Ms:  cfg.Facts.LatencyP95Ms,
			ThroughputRPS: cfg.Facts.ThroughputRPS,
			Availability:  cfg.Facts.Availability,
		},
	}, func() []a2a.Skill {
		skills := []a2a.Skill{{
			ID:          "a2a-routing",
			Description: "Routes @-mentions in incoming messages to registered peer agents.",
		}}
		for _, def := range toolReg.Definitions() {
			skills = append(skills, a2a.Skill{ID: def.Name, Description: def.Description})
		}
		return skills
	})
}
