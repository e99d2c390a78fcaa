package reflookup

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/reflookup/internal/domain/capability"
	"github.com/kailas-cloud/reflookup/internal/domain/filter"
	domhist "github.com/kailas-cloud/reflookup/internal/domain/history"
	"github.com/kailas-cloud/reflookup/internal/domain/session"
	"github.com/kailas-cloud/reflookup/internal/usecase/execution"
	"github.com/kailas-cloud/reflookup/internal/usecase/presentation"
)

type sessionEngine interface {
	SetUser(user *session.User) capability.Capabilities
	Capabilities() capability.Capabilities
	UpdateField(ctx context.Context, name, value string) error
	Filters() filter.State
	ToggleAdvanced() (bool, error)
	AdvancedOpen() bool
	SelectSuggestion(value string) error
	Suggestions() []string
	Submit(ctx context.Context) (execution.Report, error)
	ReplayEntry(ctx context.Context, entryID string) (execution.Report, error)
	History(ctx context.Context) ([]domhist.Entry, uint64, error)
	ClearHistory(ctx context.Context) error
	Presentation() presentation.State
	Dismiss()
	Wait()
}

// Session is one lookup page. Safe for concurrent use.
type Session struct {
	id     string
	engine sessionEngine
	obs    *observer
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// SetUser signs a user in on the given plan and returns their capabilities.
// Changing plans recomputes capabilities; losing advanced search closes the panel.
func (s *Session) SetUser(userID, planID string) Capabilities {
	return capabilitiesFromDomain(s.engine.SetUser(&session.User{ID: userID, PlanID: planID}))
}

// SignOut drops the user; every gated feature turns off.
func (s *Session) SignOut() {
	s.engine.SetUser(nil)
}

// Capabilities returns the features available to the current user.
func (s *Session) Capabilities() Capabilities {
	return capabilitiesFromDomain(s.engine.Capabilities())
}

// Set writes a filter value. Editing the reference refreshes suggestions.
func (s *Session) Set(ctx context.Context, field Field, value string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("set_filter", s.id, start, err) }()

	if err = s.engine.UpdateField(ctx, string(field), value); err != nil {
		return fmt.Errorf("set %s: %w", field, err)
	}
	return nil
}

// Filters returns the current criteria.
func (s *Session) Filters() Filters {
	return s.engine.Filters()
}

// ToggleAdvanced opens or closes the advanced panel and returns the new state.
// Fails with ErrAdvancedUnavailable when the tier has no advanced search.
func (s *Session) ToggleAdvanced() (bool, error) {
	open, err := s.engine.ToggleAdvanced()
	if err != nil {
		return false, fmt.Errorf("toggle advanced: %w", err)
	}
	return open, nil
}

// AdvancedOpen reports whether advanced filters take part in the next search.
func (s *Session) AdvancedOpen() bool {
	return s.engine.AdvancedOpen()
}

// Suggestions returns the current reference suggestions.
func (s *Session) Suggestions() []string {
	return s.engine.Suggestions()
}

// WaitSuggestions blocks until pending suggestion fetches have finished.
func (s *Session) WaitSuggestions() {
	s.engine.Wait()
}

// SelectSuggestion writes value into the reference filter and clears suggestions.
func (s *Session) SelectSuggestion(value string) error {
	if err := s.engine.SelectSuggestion(value); err != nil {
		return fmt.Errorf("select suggestion: %w", err)
	}
	return nil
}

// Search submits the current filters. A submission that fails validation
// reports Dispatched false and no error; backend failures surface as a
// "failed" outcome, not as an error.
func (s *Session) Search(ctx context.Context) (rep SearchReport, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search", s.id, start, err) }()

	r, err := s.engine.Submit(ctx)
	if err != nil {
		return SearchReport{}, fmt.Errorf("search: %w", err)
	}
	rep = reportFromDomain(r)
	s.obs.search(rep)
	return rep, nil
}

// Replay restores a history entry into the form and runs it again.
func (s *Session) Replay(ctx context.Context, entryID string) (rep SearchReport, err error) {
	start := time.Now()
	defer func() { s.obs.observe("replay", s.id, start, err) }()

	r, err := s.engine.ReplayEntry(ctx, entryID)
	if err != nil {
		return SearchReport{}, fmt.Errorf("replay %s: %w", entryID, err)
	}
	rep = reportFromDomain(r)
	s.obs.search(rep)
	return rep, nil
}

// History returns the user's past searches, most recent first, and the
// change version that moves whenever history is written or cleared.
func (s *Session) History(ctx context.Context) (entries []HistoryEntry, version uint64, err error) {
	start := time.Now()
	defer func() { s.obs.observe("history", s.id, start, err) }()

	list, version, err := s.engine.History(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("history: %w", err)
	}
	return entriesFromDomain(list), version, nil
}

// ClearHistory deletes the user's history.
func (s *Session) ClearHistory(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("clear_history", s.id, start, err) }()

	if err = s.engine.ClearHistory(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Presentation returns the result drawer.
func (s *Session) Presentation() Presentation {
	return presentationFromDomain(s.engine.Presentation())
}

// Dismiss hides the result drawer, keeping its results.
func (s *Session) Dismiss() {
	s.engine.Dismiss()
}
