package history

import (
	"context"
	"sync"

	domhist "github.com/kailas-cloud/reflookup/internal/domain/history"
)

// Memory is an in-process history store for running without Redis.
type Memory struct {
	mu    sync.RWMutex
	lists map[string][]domhist.Entry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{lists: make(map[string][]domhist.Entry)}
}

// Save prepends entry and keeps at most limit entries.
func (m *Memory) Save(_ context.Context, userID string, entry domhist.Entry, limit int) error {
	if limit <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	old := m.lists[userID]
	n := len(old) + 1
	if n > limit {
		n = limit
	}
	list := make([]domhist.Entry, n)
	list[0] = entry
	copy(list[1:], old)
	m.lists[userID] = list
	return nil
}

// Load returns a copy of the user's entries, most recent first.
func (m *Memory) Load(_ context.Context, userID string) ([]domhist.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domhist.Entry, len(m.lists[userID]))
	copy(out, m.lists[userID])
	return out, nil
}

// Clear removes the user's entries.
func (m *Memory) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lists, userID)
	return nil
}
