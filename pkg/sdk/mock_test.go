package reflookup

import (
	"context"

	"github.com/kailas-cloud/reflookup/internal/domain/capability"
	"github.com/kailas-cloud/reflookup/internal/domain/filter"
	domhist "github.com/kailas-cloud/reflookup/internal/domain/history"
	"github.com/kailas-cloud/reflookup/internal/domain/session"
	"github.com/kailas-cloud/reflookup/internal/usecase/execution"
	"github.com/kailas-cloud/reflookup/internal/usecase/presentation"
)

// --- sessionEngine mock ---

type mockEngine struct {
	user        *session.User
	caps        capability.Capabilities
	state       filter.State
	advanced    bool
	toggleErr   error
	suggestions []string
	pres        presentation.State

	updateFn  func(ctx context.Context, name, value string) error
	submitFn  func(ctx context.Context) (execution.Report, error)
	replayFn  func(ctx context.Context, id string) (execution.Report, error)
	historyFn func(ctx context.Context) ([]domhist.Entry, uint64, error)
	clearFn   func(ctx context.Context) error

	waited    bool
	dismissed bool
}

func (m *mockEngine) SetUser(user *session.User) capability.Capabilities {
	m.user = user
	return m.caps
}

func (m *mockEngine) Capabilities() capability.Capabilities { return m.caps }

func (m *mockEngine) UpdateField(ctx context.Context, name, value string) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, name, value)
	}
	return nil
}

func (m *mockEngine) Filters() filter.State { return m.state }

func (m *mockEngine) ToggleAdvanced() (bool, error) {
	if m.toggleErr != nil {
		return false, m.toggleErr
	}
	m.advanced = !m.advanced
	return m.advanced, nil
}

func (m *mockEngine) AdvancedOpen() bool { return m.advanced }

func (m *mockEngine) SelectSuggestion(value string) error {
	m.state.Reference = value
	m.suggestions = nil
	return nil
}

func (m *mockEngine) Suggestions() []string { return m.suggestions }

func (m *mockEngine) Submit(ctx context.Context) (execution.Report, error) {
	return m.submitFn(ctx)
}

func (m *mockEngine) ReplayEntry(ctx context.Context, id string) (execution.Report, error) {
	return m.replayFn(ctx, id)
}

func (m *mockEngine) History(ctx context.Context) ([]domhist.Entry, uint64, error) {
	return m.historyFn(ctx)
}

func (m *mockEngine) ClearHistory(ctx context.Context) error {
	if m.clearFn != nil {
		return m.clearFn(ctx)
	}
	return nil
}

func (m *mockEngine) Presentation() presentation.State { return m.pres }

func (m *mockEngine) Dismiss() {
	m.dismissed = true
	m.pres.Visible = false
}

func (m *mockEngine) Wait() { m.waited = true }
