package a2a

import "fmt"

// AgentFactsDocument is the NANDA-style self-description served for
// third-party discovery. It is assembled on demand and never persisted, so
// configuration or capability changes show up on the next request.
type AgentFactsDocument struct {
	ID           string         `json:"id"`
	AgentName    string         `json:"agent_name"`
	Label        string         `json:"label"`
	Description  string         `json:"description"`
	Version      string         `json:"version"`
	Provider     FactsProvider  `json:"provider"`
	Jurisdiction string         `json:"jurisdiction"`
	Endpoints    FactsEndpoints `json:"endpoints"`
	Skills       []Skill        `json:"skills"`
	Telemetry    FactsTelemetry `json:"telemetry"`
}

type FactsProvider struct {
	Name string `json:"name"`
}

type FactsEndpoints struct {
	Static []string `json:"static"`
}

type Skill struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type FactsTelemetry struct {
	Metrics FactsMetrics `json:"metrics"`
}

// FactsMetrics are declared performance claims from configuration, not
// live measurements.
type FactsMetrics struct {
	LatencyP95Ms  int     `json:"latency_p95_ms"`
	ThroughputRPS int     `json:"throughput_rps"`
	Availability  float64 `json:"availability"`
}

type FactsConfig struct {
	ID           string
	Label        string
	Description  string
	Version      string
	ProviderName string
	Jurisdiction string
	BaseURL      string
	Metrics      FactsMetrics
}

// FactsBuilder assembles the discovery document. Skills come through a
// callback so the advertised list tracks whatever capability set the agent
// actually exposes; the builder advertises capabilities, it does not grant
// them.
type FactsBuilder struct {
	cfg    FactsConfig
	skills func() []Skill
}

func NewFactsBuilder(cfg FactsConfig, skills func() []Skill) (*FactsBuilder, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("%w: agent id", ErrConfiguration)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: external base url", ErrConfiguration)
	}
	if skills == nil {
		skills = func() []Skill { return nil }
	}
	return &FactsBuilder{cfg: cfg, skills: skills}, nil
}

func (b *FactsBuilder) Build() AgentFactsDocument {
	return AgentFactsDocument{
		ID:           b.cfg.ID,
		AgentName:    "urn:agent:" + b.cfg.ID,
		Label:        b.cfg.Label,
		Description:  b.cfg.Description,
		Version:      b.cfg.Version,
		Provider:     FactsProvider{Name: b.cfg.ProviderName},
		Jurisdiction: b.cfg.Jurisdiction,
		Endpoints: FactsEndpoints{
			Static: []string{
				b.cfg.BaseURL + "/a2a",
				b.cfg.BaseURL + "/agentfacts",
			},
		},
		Skills:    b.skills(),
		Telemetry: FactsTelemetry{Metrics: b.cfg.Metrics},
	}
}
