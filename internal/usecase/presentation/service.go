// Package presentation controls the results drawer of a lookup session.
package presentation

import (
	"sync"

	"github.com/kailas-cloud/reflookup/internal/domain/search/result"
)

// State is what the rendering surface shows.
type State struct {
	Visible bool            `json:"visible"`
	Results []result.Record `json:"results"`
}

// Controller holds the presentation state. Safe for concurrent use because
// delayed replay opens the drawer from a timer goroutine.
type Controller struct {
	mu      sync.RWMutex
	visible bool
	results []result.Record
	gen     uint64 // bumped by Assign, Open and Dismiss
}

// New creates a hidden Controller with no results.
func New() *Controller {
	return &Controller{results: []result.Record{}}
}

// Assign replaces the results without changing visibility. The returned
// generation is passed to Show.
func (c *Controller) Assign(results []result.Record) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = cloneRecords(results)
	c.gen++
	return c.gen
}

// Show makes the drawer visible if nothing was assigned, opened or
// dismissed since the Assign that returned gen.
func (c *Controller) Show(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.visible = true
}

// Open assigns results and shows them.
func (c *Controller) Open(results []result.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = cloneRecords(results)
	c.visible = true
	c.gen++
}

// Dismiss hides the drawer. Results are kept.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = false
	c.gen++
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{Visible: c.visible, Results: cloneRecords(c.results)}
}

func cloneRecords(in []result.Record) []result.Record {
	out := make([]result.Record, len(in))
	copy(out, in)
	return out
}
