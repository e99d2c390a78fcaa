// Package filters owns the editable criteria of a lookup session and the
// advanced panel toggle.
package filters

import (
	"fmt"

	"github.com/kailas-cloud/reflookup/internal/domain"
	"github.com/kailas-cloud/reflookup/internal/domain/filter"
)

// Manager holds the current filter state. It is not safe for concurrent
// use; the session engine serializes access.
type Manager struct {
	state     filter.State
	available bool
	open      bool
}

// New creates a Manager with empty filters and the advanced panel closed.
func New() *Manager {
	return &Manager{}
}

// Update sets one field. The value is stored as given.
func (m *Manager) Update(name, value string) (filter.Field, error) {
	f, ok := filter.ParseField(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownField, name)
	}
	m.state = m.state.With(f, value)
	return f, nil
}

// ReplaceAll overwrites every field.
func (m *Manager) ReplaceAll(s filter.State) {
	m.state = s
}

// Snapshot returns a copy of the current filters.
func (m *Manager) Snapshot() filter.State {
	return m.state
}

// SetCapabilities updates whether the advanced panel may be used.
// Losing the capability closes the panel.
func (m *Manager) SetCapabilities(advancedSearch bool) {
	m.available = advancedSearch
	if !advancedSearch {
		m.open = false
	}
}

// ToggleAdvanced flips the panel and returns the new state.
func (m *Manager) ToggleAdvanced() (bool, error) {
	if !m.available {
		return false, domain.ErrAdvancedUnavailable
	}
	m.open = !m.open
	return m.open, nil
}

// SetAdvanced opens or closes the panel. Opening is ignored without the capability.
func (m *Manager) SetAdvanced(open bool) {
	m.open = open && m.available
}

// AdvancedOpen reports whether the panel is open.
func (m *Manager) AdvancedOpen() bool {
	return m.available && m.open
}

// AdvancedAvailable reports whether the panel may be opened.
func (m *Manager) AdvancedAvailable() bool {
	return m.available
}
