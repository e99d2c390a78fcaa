// Package autocomplete fetches reference suggestions while the user types.
package autocomplete

import (
	"context"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reflookup/internal/metrics"
)

// DefaultMinLength is the shortest input that triggers a fetch.
const DefaultMinLength = 3

// Engine keeps the suggestion list of one session. Every request gets a
// sequence number and only the response to the latest request is applied.
type Engine struct {
	backend   Backend
	pool      Submitter
	logger    *zap.Logger
	minLength int

	mu            sync.Mutex
	seq           uint64
	suggestions   []string
	suppressed    string
	hasSuppressed bool
	closed        bool

	inflight sync.WaitGroup
}

// New creates an Engine that runs fetches on pool.
func New(backend Backend, pool Submitter, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		backend:     backend,
		pool:        pool,
		logger:      logger,
		minLength:   DefaultMinLength,
		suggestions: []string{},
	}
}

// WithMinLength sets the minimum input length, counted in characters.
func (e *Engine) WithMinLength(n int) *Engine {
	if n > 0 {
		e.minLength = n
	}
	return e
}

// Request reacts to a new reference value. Disabled or short input clears
// the suggestions synchronously; otherwise a fetch is scheduled.
func (e *Engine) Request(ctx context.Context, partial string, enabled bool) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.seq++
	seq := e.seq

	if e.hasSuppressed && partial == e.suppressed {
		e.suggestions = []string{}
		e.mu.Unlock()
		metrics.AutocompleteRequestsTotal.WithLabelValues("suppressed").Inc()
		return
	}
	e.hasSuppressed = false

	if !enabled || utf8.RuneCountInString(partial) < e.minLength {
		e.suggestions = []string{}
		e.mu.Unlock()
		metrics.AutocompleteRequestsTotal.WithLabelValues("skipped").Inc()
		return
	}
	e.inflight.Add(1)
	e.mu.Unlock()

	// The fetch outlives the triggering request; ordering is by seq, not ctx.
	fetchCtx := context.WithoutCancel(ctx)
	err := e.pool.Submit(func() {
		defer e.inflight.Done()
		e.fetch(fetchCtx, seq, partial)
	})
	if err != nil {
		e.inflight.Done()
		metrics.AutocompleteRequestsTotal.WithLabelValues("rejected").Inc()
		e.logger.Warn("autocomplete fetch rejected", zap.String("partial", partial), zap.Error(err))
	}
}

func (e *Engine) fetch(ctx context.Context, seq uint64, partial string) {
	items, err := e.backend.Autocomplete(ctx, partial)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || seq != e.seq {
		metrics.AutocompleteRequestsTotal.WithLabelValues("stale").Inc()
		return
	}
	if err != nil {
		e.suggestions = []string{}
		metrics.AutocompleteRequestsTotal.WithLabelValues("failed").Inc()
		e.logger.Warn("autocomplete fetch failed", zap.String("partial", partial), zap.Error(err))
		return
	}
	e.suggestions = make([]string, len(items))
	copy(e.suggestions, items)
	metrics.AutocompleteRequestsTotal.WithLabelValues("fetched").Inc()
}

// Select accepts a suggestion. The list is cleared, in-flight fetches become
// stale and requests for exactly value are suppressed until the next edit.
func (e *Engine) Select(value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	e.suggestions = []string{}
	e.suppressed = value
	e.hasSuppressed = true
}

// Suggestions returns a copy of the current list.
func (e *Engine) Suggestions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.suggestions))
	copy(out, e.suggestions)
	return out
}

// Clear empties the list and invalidates in-flight fetches.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	e.suggestions = []string{}
}

// Wait blocks until scheduled fetches have finished.
func (e *Engine) Wait() {
	e.inflight.Wait()
}

// Close stops accepting requests. Responses arriving later are discarded.
// The pool is owned by the caller.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.suggestions = []string{}
}
