package a2a

import (
	"fmt"
	"net/url"
	"regexp"
	"sync"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// Registry maps peer agent ids to their reachable /a2a endpoints. It is
// created at service start and injected wherever routing needs it; all
// access goes through its lock. The running agent's own id is never a key.
type Registry struct {
	mu     sync.RWMutex
	selfID string
	peers  map[string]string
}

func NewRegistry(selfID string) *Registry {
	return &Registry{
		selfID: selfID,
		peers:  make(map[string]string),
	}
}

// Register inserts or overwrites a peer entry and returns the new peer
// count. Re-registering an existing id replaces its url without growing
// the registry.
func (r *Registry) Register(id, peerURL string) (int, error) {
	if !idPattern.MatchString(id) {
		return 0, fmt.Errorf("%w: agent id %q must be letters, digits or hyphens", ErrInvalidRegistration, id)
	}
	if id == r.selfID {
		return 0, fmt.Errorf("%w: refusing to register self (%q)", ErrInvalidRegistration, id)
	}
	u, err := url.Parse(peerURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return 0, fmt.Errorf("%w: agent url %q must be an absolute http(s) url", ErrInvalidRegistration, peerURL)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.peers[id] = peerURL
	return len(r.peers), nil
}

func (r *Registry) Lookup(id string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.peers[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAgent, id)
	}
	return u, nil
}

// List returns a point-in-time copy of the peer map. Callers may iterate
// it freely while registrations continue on other goroutines.
func (r *Registry) List() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make(map[string]string, len(r.peers))
	for id, u := range r.peers {
		snapshot[id] = u
	}
	return snapshot
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}

func (r *Registry) SelfID() string { return r.selfID }
