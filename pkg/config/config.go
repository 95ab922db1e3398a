package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Gateway GatewayConfig `toml:"gateway"`
	Agent   AgentConfig   `toml:"agent"`
	A2A     A2AConfig     `toml:"a2a"`
	Answer  AnswerConfig  `toml:"answer"`
	Tools   ToolsConfig   `toml:"tools"`
	Facts   FactsConfig   `toml:"facts"`
	Store   StoreConfig   `toml:"store"`
	Log     LogConfig     `toml:"log"`
	Tracing TracingConfig `toml:"tracing"`
}

type GatewayConfig struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
}

// AgentConfig is the identity of this agent instance ("self").
type AgentConfig struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Username    string `toml:"username"`
	ExternalURL string `toml:"external_url"`
}

type A2AConfig struct {
	Enabled         bool   `toml:"enabled"`
	DispatchTimeout string `toml:"dispatch_timeout"`
	StrictMentions  bool   `toml:"strict_mentions"`
}

type AnswerConfig struct {
	Model        string   `toml:"model"`
	BaseURL      string   `toml:"base_url"`
	APIKeyEnv    string   `toml:"api_key_env"`
	SystemPrompt string   `toml:"system_prompt"`
	Temperature  *float64 `toml:"temperature"`
	MaxTokens    int      `toml:"max_tokens"`
	Timeout      string   `toml:"timeout"`
}

type ToolsConfig struct {
	Multimodal bool   `toml:"multimodal"`
	Voice      string `toml:"voice"`
	OutputDir  string `toml:"output_dir"`
}

type FactsConfig struct {
	Label         string  `toml:"label"`
	Description   string  `toml:"description"`
	Version       string  `toml:"version"`
	ProviderName  string  `toml:"provider_name"`
	Jurisdiction  string  `toml:"jurisdiction"`
	LatencyP95Ms  int     `toml:"latency_p95_ms"`
	ThroughputRPS int     `toml:"throughput_rps"`
	Availability  float64 `toml:"availability"`
}

type StoreConfig struct {
	DSN      string `toml:"dsn"`
	AuditDSN string `toml:"audit_dsn"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type TracingConfig struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
}

func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Bind: "loopback",
			Port: 8000,
		},
		Agent: AgentConfig{
			ID:          "agent-twin",
			Name:        "Personal Agent Twin",
			Username:    "agent-twin",
			ExternalURL: "http://localhost:8000",
		},
		A2A: A2AConfig{
			Enabled:         true,
			DispatchTimeout: "10s",
		},
		Answer: AnswerConfig{
			Model:     "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY",
			MaxTokens: 2048,
			Timeout:   "60s",
		},
		Tools: ToolsConfig{
			Multimodal: true,
			Voice:      "nova",
		},
		Facts: FactsConfig{
			Label:         "Personal Agent Twin",
			Description:   "A hosted personal agent that answers questions and routes @-mentions to peer agents.",
			Version:       "1.0.0",
			ProviderName:  "agenthub",
			Jurisdiction:  "US",
			LatencyP95Ms:  2500,
			ThroughputRPS: 10,
			Availability:  0.99,
		},
		Store: StoreConfig{
			DSN:      filepath.Join(DataDir(), "agenthub.db"),
			AuditDSN: filepath.Join(DataDir(), "audit.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Store.DSN == "" {
		cfg.Store.DSN = filepath.Join(DataDir(), "agenthub.db")
	}
	if cfg.Store.AuditDSN == "" {
		cfg.Store.AuditDSN = filepath.Join(DataDir(), "audit.db")
	}

	return cfg, nil
}

// DispatchTimeout parses a2a.dispatch_timeout, falling back to 10s for
// empty or unparsable values.
func (c *Config) DispatchTimeout() time.Duration {
	return parseDuration(c.A2A.DispatchTimeout, 10*time.Second)
}

// AnswerTimeout parses answer.timeout, falling back to 60s.
func (c *Config) AnswerTimeout() time.Duration {
	return parseDuration(c.Answer.Timeout, 60*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func DataDir() string {
	if dir := os.Getenv("AGENTHUB_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agenthub"
	}
	return filepath.Join(home, ".agenthub")
}

func DefaultConfigPath() string {
	return filepath.Join(DataDir(), "agenthub.toml")
}

func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}
