package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Kind is the closed set of capability variants this agent can expose.
// Discovery derives its skill list from these; nothing is probed at runtime.
type Kind string

const (
	KindRouting    Kind = "routing"
	KindCalculator Kind = "calculator"
	KindVision     Kind = "vision"
	KindSpeech     Kind = "speech"
	KindDocument   Kind = "document"
)

type Definition struct {
	Name        string
	Description string
	Kind        Kind
}

type Tool interface {
	Definition() Definition

	Execute(ctx context.Context, input json.RawMessage) (string, error)
}

type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Definition().Name] = t
}

func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	return t, nil
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Definitions returns tool definitions sorted by name so the advertised
// skill list is stable across requests.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.Definition())
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

func parseInput[T any](input json.RawMessage, toolName string) (T, error) {
	var params T
	if err := json.Unmarshal(input, &params); err != nil {
		return params, fmt.Errorf("%s: invalid input: %w", toolName, err)
	}
	return params, nil
}
