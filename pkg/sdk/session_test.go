package reflookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/reflookup/internal/domain"
	"github.com/kailas-cloud/reflookup/internal/domain/capability"
	"github.com/kailas-cloud/reflookup/internal/domain/filter"
	domhist "github.com/kailas-cloud/reflookup/internal/domain/history"
	"github.com/kailas-cloud/reflookup/internal/domain/search/mode"
	"github.com/kailas-cloud/reflookup/internal/domain/search/result"
	"github.com/kailas-cloud/reflookup/internal/usecase/execution"
	"github.com/kailas-cloud/reflookup/internal/usecase/presentation"
)

func TestSession_SetUser(t *testing.T) {
	m := &mockEngine{caps: capability.Capabilities{AdvancedSearch: true, HistoryLimit: 5, Autocomplete: true}}
	s := &Session{id: "s1", engine: m}

	caps := s.SetUser("u1", "dealer")
	if !caps.AdvancedSearch || caps.HistoryLimit != 5 || !caps.Autocomplete {
		t.Errorf("caps = %+v", caps)
	}
	if m.user == nil || m.user.ID != "u1" || m.user.PlanID != "dealer" {
		t.Errorf("user = %+v", m.user)
	}

	s.SignOut()
	if m.user != nil {
		t.Error("SignOut should clear the user")
	}
}

func TestSession_Set_WrapsError(t *testing.T) {
	m := &mockEngine{
		updateFn: func(_ context.Context, name, _ string) error {
			if name != "serial" {
				t.Errorf("name = %q", name)
			}
			return domain.ErrUnknownField
		},
	}
	s := &Session{engine: m}

	err := s.Set(context.Background(), Field("serial"), "x")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}
}

func TestSession_ToggleAdvanced(t *testing.T) {
	s := &Session{engine: &mockEngine{toggleErr: domain.ErrAdvancedUnavailable}}
	if _, err := s.ToggleAdvanced(); !errors.Is(err, ErrAdvancedUnavailable) {
		t.Fatalf("err = %v, want ErrAdvancedUnavailable", err)
	}

	s = &Session{engine: &mockEngine{}}
	open, err := s.ToggleAdvanced()
	if err != nil || !open || !s.AdvancedOpen() {
		t.Errorf("open = %v, err = %v", open, err)
	}
}

func TestSession_SelectSuggestion(t *testing.T) {
	m := &mockEngine{suggestions: []string{"116500LN"}}
	s := &Session{engine: m}

	if err := s.SelectSuggestion("116500LN"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Filters().Reference != "116500LN" {
		t.Errorf("reference = %q", s.Filters().Reference)
	}
	if len(s.Suggestions()) != 0 {
		t.Error("suggestions should be cleared")
	}
	s.WaitSuggestions()
	if !m.waited {
		t.Error("WaitSuggestions should drain the engine")
	}
}

func TestSession_Search_Report(t *testing.T) {
	backendErr := domain.NewTransportError("search_by_reference", 503, nil)
	m := &mockEngine{
		submitFn: func(context.Context) (execution.Report, error) {
			return execution.Report{
				Trigger:    execution.TriggerSubmit,
				Dispatched: true,
				Mode:       mode.Basic,
				Outcome:    result.Failure(backendErr),
			}, nil
		},
	}
	s := &Session{engine: m}

	rep, err := s.Search(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rep.Dispatched || rep.Mode != "basic" || rep.Outcome != "failed" || rep.Trigger != "submit" {
		t.Errorf("report = %+v", rep)
	}
	if !errors.Is(rep.Err, ErrTransport) {
		t.Errorf("report err = %v, want ErrTransport", rep.Err)
	}
}

func TestSession_Search_Skipped(t *testing.T) {
	m := &mockEngine{
		submitFn: func(context.Context) (execution.Report, error) {
			return execution.Report{Trigger: execution.TriggerSubmit, SkipReason: execution.SkipEmptyFilters}, nil
		},
	}
	s := &Session{engine: m}

	rep, err := s.Search(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Dispatched || rep.SkipReason != execution.SkipEmptyFilters || rep.Mode != "" || rep.Outcome != "" {
		t.Errorf("report = %+v", rep)
	}
}

func TestSession_Search_ClosedSession(t *testing.T) {
	m := &mockEngine{
		submitFn: func(context.Context) (execution.Report, error) {
			return execution.Report{}, domain.ErrSessionNotFound
		},
	}
	s := &Session{engine: m}
	if _, err := s.Search(context.Background()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestSession_Replay(t *testing.T) {
	m := &mockEngine{
		replayFn: func(_ context.Context, id string) (execution.Report, error) {
			if id == "missing" {
				return execution.Report{}, domain.ErrNotFound
			}
			return execution.Report{
				Trigger:    execution.TriggerReplay,
				Dispatched: true,
				Mode:       mode.Advanced,
				Outcome:    result.Success(nil),
			}, nil
		},
	}
	s := &Session{engine: m}

	rep, err := s.Replay(context.Background(), "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Trigger != "replay" || rep.Mode != "advanced" || rep.Outcome != "empty" {
		t.Errorf("report = %+v", rep)
	}

	if _, err := s.Replay(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSession_History(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := &mockEngine{
		historyFn: func(context.Context) ([]domhist.Entry, uint64, error) {
			return []domhist.Entry{{ID: "e1", Filters: filter.State{Brand: "Rolex"}, CreatedAt: created}}, 3, nil
		},
	}
	s := &Session{engine: m}

	entries, version, err := s.History(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 3 {
		t.Errorf("version = %d, want 3", version)
	}
	if len(entries) != 1 || entries[0].ID != "e1" || entries[0].Filters.Brand != "Rolex" || !entries[0].CreatedAt.Equal(created) {
		t.Errorf("entries = %+v", entries)
	}
}

func TestSession_History_Error(t *testing.T) {
	m := &mockEngine{
		historyFn: func(context.Context) ([]domhist.Entry, uint64, error) {
			return nil, 0, errors.New("db down")
		},
	}
	s := &Session{engine: m}
	if _, _, err := s.History(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestSession_Presentation(t *testing.T) {
	m := &mockEngine{pres: presentation.State{Visible: true, Results: []result.Record{{ID: "1"}}}}
	s := &Session{engine: m}

	if p := s.Presentation(); !p.Visible || len(p.Results) != 1 {
		t.Errorf("presentation = %+v", p)
	}
	s.Dismiss()
	if !m.dismissed || s.Presentation().Visible {
		t.Error("Dismiss should hide the drawer")
	}
}

func TestObserver_CountsSearches(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	m := &mockEngine{
		submitFn: func(context.Context) (execution.Report, error) {
			return execution.Report{
				Trigger:    execution.TriggerSubmit,
				Dispatched: true,
				Mode:       mode.Basic,
				Outcome:    result.Success([]result.Record{{ID: "1"}}),
			}, nil
		},
	}
	s := &Session{id: "s1", engine: m, obs: obs}

	for range 2 {
		if _, err := s.Search(context.Background()); err != nil {
			t.Fatalf("search: %v", err)
		}
	}

	if got := testutil.ToFloat64(obs.metrics.searches.WithLabelValues("submit", "succeeded")); got != 2 {
		t.Errorf("searches_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("search", "ok")); got != 2 {
		t.Errorf("operations_total = %v, want 2", got)
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.metrics.operations != second.metrics.operations {
		t.Error("second observer should reuse the registered collector")
	}
}

func TestObserver_NilIsNoop(t *testing.T) {
	var o *observer
	o.observe("x", "", time.Now(), nil)
	o.search(SearchReport{Dispatched: true})
}
