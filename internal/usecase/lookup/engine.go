// Package lookup composes capabilities, filters, suggestions, execution,
// history and presentation into one lookup page session.
package lookup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reflookup/internal/domain"
	"github.com/kailas-cloud/reflookup/internal/domain/capability"
	"github.com/kailas-cloud/reflookup/internal/domain/filter"
	domhist "github.com/kailas-cloud/reflookup/internal/domain/history"
	"github.com/kailas-cloud/reflookup/internal/domain/search/mode"
	"github.com/kailas-cloud/reflookup/internal/domain/session"
	"github.com/kailas-cloud/reflookup/internal/logger"
	"github.com/kailas-cloud/reflookup/internal/usecase/autocomplete"
	"github.com/kailas-cloud/reflookup/internal/usecase/execution"
	"github.com/kailas-cloud/reflookup/internal/usecase/filters"
	"github.com/kailas-cloud/reflookup/internal/usecase/presentation"
)

// Deps are the collaborators shared by all sessions.
type Deps struct {
	Resolver    CapabilityResolver
	Catalog     Catalog
	History     History
	Pool        Submitter // required
	Logger      *zap.Logger
	ReplayDelay time.Duration // zero shows replayed results immediately
	MinLength   int

	// Schedule overrides the replay timer. Nil uses time.AfterFunc.
	Schedule func(d time.Duration, fn func())
}

// Engine is the state of one lookup page session. State mutations are
// serialized; searches are dispatched outside the lock.
type Engine struct {
	id       string
	resolver CapabilityResolver
	history  History
	base     *zap.Logger
	logger   *zap.Logger

	mu      sync.Mutex
	user    *session.User
	caps    capability.Capabilities
	filters *filters.Manager
	suggest *autocomplete.Engine
	exec    *execution.Engine
	present *presentation.Controller
	closed  bool
}

// NewEngine creates a session with no user and everything disabled.
func NewEngine(id string, deps Deps) *Engine {
	base := deps.Logger
	if base == nil {
		base = zap.NewNop()
	}
	l := logger.ForSession(base, id)
	present := presentation.New()

	var rec execution.HistoryRecorder
	if deps.History != nil {
		rec = deps.History
	}
	exec := execution.New(deps.Catalog, present, rec, l).WithReplayDelay(deps.ReplayDelay)
	if deps.Schedule != nil {
		exec.WithScheduler(deps.Schedule)
	}

	return &Engine{
		id:       id,
		resolver: deps.Resolver,
		history:  deps.History,
		base:     base,
		logger:   l,
		filters:  filters.New(),
		suggest:  autocomplete.New(deps.Catalog, deps.Pool, l).WithMinLength(deps.MinLength),
		exec:     exec,
		present:  present,
	}
}

// ID returns the session id.
func (e *Engine) ID() string { return e.id }

// SetUser switches the signed-in user and recomputes capabilities.
// nil means signed out.
func (e *Engine) SetUser(user *session.User) capability.Capabilities {
	e.mu.Lock()
	defer e.mu.Unlock()

	if user != nil {
		u := *user
		e.user = &u
	} else {
		e.user = nil
	}
	if e.resolver != nil {
		e.caps = e.resolver.For(e.user)
	} else {
		e.caps = capability.Capabilities{}
	}
	e.filters.SetCapabilities(e.caps.AdvancedSearch)
	e.logger = logger.ForSession(e.base, e.id)
	if e.user != nil {
		e.logger = logger.ForUser(e.logger, e.user.ID, e.user.PlanID)
	}
	if !e.caps.Autocomplete {
		e.suggest.Clear()
	}

	e.logger.Debug("capabilities resolved",
		zap.Bool("advanced_search", e.caps.AdvancedSearch),
		zap.Int("history_limit", e.caps.HistoryLimit),
		zap.Bool("autocomplete", e.caps.Autocomplete),
	)
	return e.caps
}

// User returns a copy of the current user, or nil.
func (e *Engine) User() *session.User {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.user == nil {
		return nil
	}
	u := *e.user
	return &u
}

// Capabilities returns the resolved capabilities.
func (e *Engine) Capabilities() capability.Capabilities {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.caps
}

// UpdateField sets one filter. Editing the reference requests suggestions.
func (e *Engine) UpdateField(ctx context.Context, name, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrSessionNotFound
	}

	f, err := e.filters.Update(name, value)
	if err != nil {
		return err
	}
	if f == filter.Reference {
		e.suggest.Request(ctx, value, e.caps.Autocomplete)
	}
	return nil
}

// Filters returns the current filter state.
func (e *Engine) Filters() filter.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters.Snapshot()
}

// ToggleAdvanced flips the advanced panel.
func (e *Engine) ToggleAdvanced() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters.ToggleAdvanced()
}

// AdvancedOpen reports whether the advanced panel is open.
func (e *Engine) AdvancedOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters.AdvancedOpen()
}

// SelectSuggestion writes a suggestion into the reference field.
func (e *Engine) SelectSuggestion(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrSessionNotFound
	}
	if _, err := e.filters.Update(string(filter.Reference), value); err != nil {
		return err
	}
	e.suggest.Select(value)
	return nil
}

// Suggestions returns the current suggestion list.
func (e *Engine) Suggestions() []string {
	return e.suggest.Suggestions()
}

// Submit runs a search with the current filters.
func (e *Engine) Submit(ctx context.Context) (execution.Report, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return execution.Report{}, domain.ErrSessionNotFound
	}
	req := e.requestLocked()
	req.AdvancedOpen = e.filters.AdvancedOpen()
	e.mu.Unlock()

	return e.exec.Submit(e.withLogger(ctx), req), nil
}

// Replay restores s into the filters and re-runs it.
func (e *Engine) Replay(ctx context.Context, s filter.State) (execution.Report, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return execution.Report{}, domain.ErrSessionNotFound
	}
	e.filters.ReplaceAll(s)
	e.filters.SetAdvanced(execution.ReplayMode(e.caps, s) == mode.Advanced)
	e.suggest.Clear()
	req := e.requestLocked()
	e.mu.Unlock()

	return e.exec.Replay(e.withLogger(ctx), req), nil
}

// ReplayEntry replays a stored history entry of the current user.
func (e *Engine) ReplayEntry(ctx context.Context, entryID string) (execution.Report, error) {
	if e.history == nil {
		return execution.Report{}, fmt.Errorf("history entry %q: %w", entryID, domain.ErrNotFound)
	}
	entry, err := e.history.Get(ctx, e.userID(), entryID)
	if err != nil {
		return execution.Report{}, err
	}
	return e.Replay(ctx, entry.Filters)
}

// History lists the current user's entries, most recent first, with the
// change version. Users without history get an empty list.
func (e *Engine) History(ctx context.Context) ([]domhist.Entry, uint64, error) {
	if e.history == nil || !e.Capabilities().HistoryEnabled() {
		return []domhist.Entry{}, e.HistoryVersion(), nil
	}
	entries, err := e.history.List(ctx, e.userID())
	if err != nil {
		return nil, 0, err
	}
	return entries, e.history.Version(), nil
}

// ClearHistory removes the current user's entries.
func (e *Engine) ClearHistory(ctx context.Context) error {
	if e.history == nil {
		return nil
	}
	return e.history.Clear(ctx, e.userID())
}

// HistoryVersion returns the change counter history views observe.
func (e *Engine) HistoryVersion() uint64 {
	if e.history == nil {
		return 0
	}
	return e.history.Version()
}

// Presentation returns the result drawer state.
func (e *Engine) Presentation() presentation.State {
	return e.present.State()
}

// Dismiss hides the result drawer.
func (e *Engine) Dismiss() {
	e.present.Dismiss()
}

// Wait blocks until in-flight suggestion fetches finish.
func (e *Engine) Wait() {
	e.suggest.Wait()
}

// Close ends the session. Later calls that mutate state fail with
// domain.ErrSessionNotFound.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.suggest.Close()
}

func (e *Engine) requestLocked() execution.Request {
	req := execution.Request{
		Filters:      e.filters.Snapshot(),
		Capabilities: e.caps,
	}
	if e.user != nil {
		req.UserID = e.user.ID
	}
	return req
}

func (e *Engine) userID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.user == nil {
		return ""
	}
	return e.user.ID
}

// withLogger tags the request logger, if any, with the session and user.
// Must be called without holding e.mu.
func (e *Engine) withLogger(ctx context.Context) context.Context {
	l := logger.ForSession(logger.FromContext(ctx, e.base), e.id)
	if u := e.User(); u != nil {
		l = logger.ForUser(l, u.ID, u.PlanID)
	}
	return logger.ContextWithLogger(ctx, l)
}
