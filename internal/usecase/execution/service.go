// Package execution selects a search strategy, dispatches it and hands the
// outcome to presentation and history.
package execution

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reflookup/internal/domain/capability"
	"github.com/kailas-cloud/reflookup/internal/domain/filter"
	"github.com/kailas-cloud/reflookup/internal/domain/search/mode"
	"github.com/kailas-cloud/reflookup/internal/domain/search/query"
	"github.com/kailas-cloud/reflookup/internal/domain/search/result"
	"github.com/kailas-cloud/reflookup/internal/logger"
	"github.com/kailas-cloud/reflookup/internal/metrics"
)

// DefaultReplayDelay paces the opening of replayed results.
const DefaultReplayDelay = 100 * time.Millisecond

// Request is the input of one invocation.
type Request struct {
	UserID       string
	Filters      filter.State
	Capabilities capability.Capabilities
	AdvancedOpen bool // ignored by Replay
}

// Report describes what an invocation did.
type Report struct {
	Trigger    Trigger
	Dispatched bool
	SkipReason string
	Mode       mode.Mode
	Query      query.Query
	State      State // terminal state; Idle when nothing was dispatched
	Outcome    result.Outcome
}

// Engine runs search invocations for one session.
type Engine struct {
	backend     Backend
	presenter   Presenter
	history     HistoryRecorder
	logger      *zap.Logger
	replayDelay time.Duration
	schedule    func(d time.Duration, fn func())
	observer    func(State)

	mu    sync.Mutex
	state State
}

// New creates an Engine. history can be nil.
func New(backend Backend, presenter Presenter, history HistoryRecorder, l *zap.Logger) *Engine {
	if l == nil {
		l = zap.NewNop()
	}
	return &Engine{
		backend:     backend,
		presenter:   presenter,
		history:     history,
		logger:      l,
		replayDelay: DefaultReplayDelay,
		schedule:    func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
}

// WithReplayDelay sets the pause between assigning replayed results and
// showing them. Zero shows them immediately.
func (e *Engine) WithReplayDelay(d time.Duration) *Engine {
	if d < 0 {
		d = 0
	}
	e.replayDelay = d
	return e
}

// WithScheduler replaces the timer used for the replay delay.
func (e *Engine) WithScheduler(schedule func(d time.Duration, fn func())) *Engine {
	e.schedule = schedule
	return e
}

// WithObserver registers a callback invoked on every state transition.
func (e *Engine) WithObserver(fn func(State)) *Engine {
	e.observer = fn
	return e
}

// State returns the current phase.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) transition(s State) {
	e.mu.Lock()
	e.state = s
	obs := e.observer
	e.mu.Unlock()
	if obs != nil {
		obs(s)
	}
}

// SelectMode picks the strategy for a live submit.
func SelectMode(caps capability.Capabilities, advancedOpen bool) mode.Mode {
	if caps.AdvancedSearch && advancedOpen {
		return mode.Advanced
	}
	return mode.Basic
}

// ReplayMode picks the strategy for a restored filter set from the fields
// that are set, not from the panel currently shown.
func ReplayMode(caps capability.Capabilities, s filter.State) mode.Mode {
	return SelectMode(caps, s.HasReplayableCriteria())
}

// Submit runs a live search. Successful searches are recorded in history
// when the capability allows it.
func (e *Engine) Submit(ctx context.Context, req Request) Report {
	m := SelectMode(req.Capabilities, req.AdvancedOpen)
	rep, records, ok := e.run(ctx, TriggerSubmit, m, req.Filters)
	if !ok {
		return rep
	}

	if !rep.Outcome.Failed() && e.history != nil && req.Capabilities.HistoryEnabled() {
		if err := e.history.Record(ctx, req.UserID, req.Filters, req.Capabilities.HistoryLimit); err != nil {
			logger.FromContext(ctx, e.logger).Warn("history record failed",
				zap.String("user_id", req.UserID),
				zap.Error(err),
			)
		}
	}

	e.presenter.Open(records)
	e.transition(Idle)
	return rep
}

// Replay re-runs a stored filter set. It never records history and shows
// the results after the replay delay.
func (e *Engine) Replay(ctx context.Context, req Request) Report {
	m := ReplayMode(req.Capabilities, req.Filters)
	rep, records, ok := e.run(ctx, TriggerReplay, m, req.Filters)
	if !ok {
		return rep
	}

	if rep.Outcome.Failed() || e.replayDelay == 0 {
		e.presenter.Open(records)
	} else {
		gen := e.presenter.Assign(records)
		e.schedule(e.replayDelay, func() { e.presenter.Show(gen) })
	}
	e.transition(Idle)
	return rep
}

// run validates, dispatches and classifies. ok is false when nothing was dispatched.
func (e *Engine) run(
	ctx context.Context, trigger Trigger, m mode.Mode, s filter.State,
) (Report, []result.Record, bool) {
	rep := Report{Trigger: trigger, Mode: m, State: Idle}
	log := logger.FromContext(ctx, e.logger)

	if s.IsEmpty() {
		rep.SkipReason = SkipEmptyFilters
		metrics.SearchSkippedTotal.WithLabelValues(SkipEmptyFilters).Inc()
		return rep, nil, false
	}
	if m == mode.Basic && s.Reference == "" {
		rep.SkipReason = SkipEmptyReference
		metrics.SearchSkippedTotal.WithLabelValues(SkipEmptyReference).Inc()
		return rep, nil, false
	}

	q := query.Build(m, s)
	rep.Query = q
	rep.Dispatched = true
	e.transition(Running)

	start := time.Now()
	records, err := e.dispatch(ctx, q)
	metrics.SearchDuration.WithLabelValues(string(m)).Observe(time.Since(start).Seconds())

	if err != nil {
		rep.Outcome = result.Failure(err)
		rep.State = Failed
		e.transition(Failed)
		log.Error("search failed",
			zap.String("mode", string(m)),
			zap.String("trigger", string(trigger)),
			zap.Error(err),
		)
		metrics.SearchTotal.WithLabelValues(string(m), string(trigger), string(result.Failed)).Inc()
		return rep, rep.Outcome.Records(), true
	}

	rep.Outcome = result.Success(records)
	rep.State = Succeeded
	e.transition(Succeeded)
	log.Debug("search completed",
		zap.String("mode", string(m)),
		zap.String("trigger", string(trigger)),
		zap.Int("results", len(rep.Outcome.Records())),
	)
	metrics.SearchTotal.WithLabelValues(string(m), string(trigger), string(rep.Outcome.Kind())).Inc()
	return rep, rep.Outcome.Records(), true
}

func (e *Engine) dispatch(ctx context.Context, q query.Query) ([]result.Record, error) {
	if q.Mode() == mode.Advanced {
		return e.backend.SearchAdvanced(ctx, q.Advanced())
	}
	return e.backend.SearchByReference(ctx, q.Reference())
}
