package a2a

import (
	"errors"
	"testing"
)

func testFactsConfig() FactsConfig {
	return FactsConfig{
		ID:           "agent-twin",
		Label:        "Personal Agent Twin",
		Description:  "A hosted personal agent.",
		Version:      "1.0.0",
		ProviderName: "agenthub",
		Jurisdiction: "US",
		BaseURL:      "http://localhost:8000",
		Metrics: FactsMetrics{
			LatencyP95Ms:  2500,
			ThroughputRPS: 10,
			Availability:  0.99,
		},
	}
}

func TestFactsBuild(t *testing.T) {
	skills := []Skill{
		{ID: "a2a-routing", Description: "Routes mentions."},
		{ID: "calculator", Description: "Arithmetic."},
	}
	b, err := NewFactsBuilder(testFactsConfig(), func() []Skill { return skills })
	if err != nil {
		t.Fatalf("NewFactsBuilder: %v", err)
	}

	doc := b.Build()

	if doc.ID != "agent-twin" {
		t.Errorf("ID = %q, want agent-twin", doc.ID)
	}
	if doc.AgentName != "urn:agent:agent-twin" {
		t.Errorf("AgentName = %q, want urn form", doc.AgentName)
	}
	if doc.Provider.Name != "agenthub" {
		t.Errorf("Provider.Name = %q, want agenthub", doc.Provider.Name)
	}
	if len(doc.Endpoints.Static) != 2 {
		t.Fatalf("Endpoints.Static = %v, want 2 entries", doc.Endpoints.Static)
	}
	if doc.Endpoints.Static[0] != "http://localhost:8000/a2a" {
		t.Errorf("Endpoints.Static[0] = %q, want a2a endpoint", doc.Endpoints.Static[0])
	}
	if doc.Endpoints.Static[1] != "http://localhost:8000/agentfacts" {
		t.Errorf("Endpoints.Static[1] = %q, want agentfacts endpoint", doc.Endpoints.Static[1])
	}
	if len(doc.Skills) != 2 {
		t.Errorf("Skills = %v, want 2 entries", doc.Skills)
	}
	if doc.Telemetry.Metrics.LatencyP95Ms != 2500 {
		t.Errorf("LatencyP95Ms = %d, want 2500", doc.Telemetry.Metrics.LatencyP95Ms)
	}
}

func TestFactsBuildTracksSkills(t *testing.T) {
	var skills []Skill
	b, err := NewFactsBuilder(testFactsConfig(), func() []Skill { return skills })
	if err != nil {
		t.Fatalf("NewFactsBuilder: %v", err)
	}

	if got := b.Build(); len(got.Skills) != 0 {
		t.Fatalf("Skills = %v, want empty", got.Skills)
	}

	skills = append(skills, Skill{ID: "calculator", Description: "Arithmetic."})
	if got := b.Build(); len(got.Skills) != 1 {
		t.Fatalf("Skills = %v after capability added, want 1 entry", got.Skills)
	}
}

func TestNewFactsBuilderRequiresIdentity(t *testing.T) {
	cfg := testFactsConfig()
	cfg.ID = ""
	if _, err := NewFactsBuilder(cfg, nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("missing id: err = %v, want ErrConfiguration", err)
	}

	cfg = testFactsConfig()
	cfg.BaseURL = ""
	if _, err := NewFactsBuilder(cfg, nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("missing base url: err = %v, want ErrConfiguration", err)
	}
}

func TestFactsBuildNilSkills(t *testing.T) {
	b, err := NewFactsBuilder(testFactsConfig(), nil)
	if err != nil {
		t.Fatalf("NewFactsBuilder: %v", err)
	}
	if got := b.Build(); len(got.Skills) != 0 {
		t.Errorf("Skills = %v, want empty", got.Skills)
	}
}
