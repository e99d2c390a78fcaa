package lookup

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kailas-cloud/reflookup/internal/domain"
	"github.com/kailas-cloud/reflookup/internal/metrics"
)

// Registry holds the open sessions keyed by id.
type Registry struct {
	deps  Deps
	newID func() string

	mu       sync.RWMutex
	sessions map[string]*Engine
}

// NewRegistry creates an empty Registry.
func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:     deps,
		newID:    uuid.NewString,
		sessions: make(map[string]*Engine),
	}
}

// Create opens a new session.
func (r *Registry) Create() *Engine {
	e := NewEngine(r.newID(), r.deps)

	r.mu.Lock()
	r.sessions[e.ID()] = e
	r.mu.Unlock()

	metrics.ActiveSessions.Inc()
	return e
}

// Get returns an open session.
func (r *Registry) Get(id string) (*Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, domain.ErrSessionNotFound)
	}
	return e, nil
}

// Delete closes and removes a session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %q: %w", id, domain.ErrSessionNotFound)
	}
	e.Close()
	metrics.ActiveSessions.Dec()
	return nil
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close closes every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Engine)
	r.mu.Unlock()

	for _, e := range sessions {
		e.Close()
		metrics.ActiveSessions.Dec()
	}
}
