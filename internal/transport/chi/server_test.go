package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/kailas-cloud/reflookup/internal/domain"
	"github.com/kailas-cloud/reflookup/internal/domain/capability"
	"github.com/kailas-cloud/reflookup/internal/domain/search/query"
	"github.com/kailas-cloud/reflookup/internal/domain/search/result"
	"github.com/kailas-cloud/reflookup/internal/domain/tier"
	"github.com/kailas-cloud/reflookup/internal/metrics"
	repohist "github.com/kailas-cloud/reflookup/internal/repository/history"
	capuc "github.com/kailas-cloud/reflookup/internal/usecase/capability"
	healthuc "github.com/kailas-cloud/reflookup/internal/usecase/health"
	historyuc "github.com/kailas-cloud/reflookup/internal/usecase/history"
	"github.com/kailas-cloud/reflookup/internal/usecase/lookup"
	"github.com/kailas-cloud/reflookup/internal/usecase/presentation"
)

func TestMain(m *testing.M) {
	metrics.RegisterLookupMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockCatalog struct {
	mu          sync.Mutex
	records     []result.Record
	searchErr   error
	suggestions []string
	healthErr   error
	advanced    []query.Advanced
}

func (m *mockCatalog) SearchByReference(_ context.Context, _ string) ([]result.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records, m.searchErr
}

func (m *mockCatalog) SearchAdvanced(_ context.Context, q query.Advanced) ([]result.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advanced = append(m.advanced, q)
	return m.records, m.searchErr
}

func (m *mockCatalog) Autocomplete(_ context.Context, _ string) ([]string, error) {
	return m.suggestions, nil
}

func (m *mockCatalog) HealthCheck(_ context.Context) error {
	return m.healthErr
}

type inlineSubmitter struct{}

func (inlineSubmitter) Submit(task func()) error {
	task()
	return nil
}

// --- Helpers ---

var testTiers = tier.Catalog{
	{ID: "free", SearchHistoryLimit: 0},
	{ID: "dealer", AdvancedSearch: true, SearchHistoryLimit: 5, AutocompleteReference: true},
}

func newTestServer(t *testing.T, cat *mockCatalog) http.Handler {
	t.Helper()
	reg := lookup.NewRegistry(lookup.Deps{
		Resolver: capuc.New(testTiers),
		Catalog:  cat,
		History:  historyuc.New(repohist.NewMemory()),
		Pool:     inlineSubmitter{},
	})
	t.Cleanup(reg.Close)
	return NewServer(reg, healthuc.New(nil, cat), nil).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/sessions", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("create session: got %d", rr.Code)
	}
	return decode[SessionResponse](t, rr).ID
}

func loginAs(t *testing.T, h http.Handler, id, plan string) {
	t.Helper()
	rr := do(t, h, http.MethodPut, "/sessions/"+id+"/user", `{"user_id":"u1","plan_id":"`+plan+`"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("set user: got %d %s", rr.Code, rr.Body.String())
	}
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, code ErrorCode) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status: got %d, want %d (%s)", rr.Code, status, rr.Body.String())
	}
	resp := decode[ErrorResponse](t, rr)
	if resp.Code != code {
		t.Errorf("code: got %s, want %s", resp.Code, code)
	}
}

// --- Tests ---

func TestCreateAndGetSession(t *testing.T) {
	h := newTestServer(t, &mockCatalog{})
	id := createSession(t, h)
	if id == "" {
		t.Fatal("empty session id")
	}

	rr := do(t, h, http.MethodGet, "/sessions/"+id, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get session: got %d", rr.Code)
	}
	resp := decode[SessionResponse](t, rr)
	if resp.User != nil {
		t.Errorf("new session should have no user, got %+v", resp.User)
	}
	if resp.Capabilities.AdvancedSearch || resp.Capabilities.HistoryLimit != 0 {
		t.Errorf("new session should have no capabilities, got %+v", resp.Capabilities)
	}
	if resp.Presentation.Visible {
		t.Error("presentation should start hidden")
	}
}

func TestUnknownSession_404(t *testing.T) {
	h := newTestServer(t, &mockCatalog{})
	expectError(t, do(t, h, http.MethodGet, "/sessions/missing/filters", ""), http.StatusNotFound, CodeSessionNotFound)
}

func TestDeleteSession(t *testing.T) {
	h := newTestServer(t, &mockCatalog{})
	id := createSession(t, h)

	if rr := do(t, h, http.MethodDelete, "/sessions/"+id, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete: got %d", rr.Code)
	}
	expectError(t, do(t, h, http.MethodGet, "/sessions/"+id, ""), http.StatusNotFound, CodeSessionNotFound)
	expectError(t, do(t, h, http.MethodDelete, "/sessions/"+id, ""), http.StatusNotFound, CodeSessionNotFound)
}

func TestSetUser_RequiresUserID(t *testing.T) {
	h := newTestServer(t, &mockCatalog{})
	id := createSession(t, h)
	expectError(t, do(t, h, http.MethodPut, "/sessions/"+id+"/user", `{"plan_id":"dealer"}`), http.StatusBadRequest, CodeBadRequest)
	expectError(t, do(t, h, http.MethodPut, "/sessions/"+id+"/user", `{not json`), http.StatusBadRequest, CodeBadRequest)
}

func TestCapabilitiesFollowUser(t *testing.T) {
	h := newTestServer(t, &mockCatalog{})
	id := createSession(t, h)
	loginAs(t, h, id, "dealer")

	rr := do(t, h, http.MethodGet, "/sessions/"+id+"/capabilities", "")
	caps := decode[capability.Capabilities](t, rr)
	if !caps.AdvancedSearch || caps.HistoryLimit != 5 || !caps.Autocomplete {
		t.Errorf("dealer capabilities: got %+v", caps)
	}

	if rr := do(t, h, http.MethodDelete, "/sessions/"+id+"/user", ""); rr.Code != http.StatusOK {
		t.Fatalf("logout: got %d", rr.Code)
	}
	rr = do(t, h, http.MethodGet, "/sessions/"+id, "")
	if s := decode[SessionResponse](t, rr); s.Capabilities.AdvancedSearch || s.User != nil {
		t.Errorf("logout should drop capabilities, got %+v", s)
	}
}

func TestUpdateFilter(t *testing.T) {
	h := newTestServer(t, &mockCatalog{})
	id := createSession(t, h)

	rr := do(t, h, http.MethodPut, "/sessions/"+id+"/filters/brand", `{"value":"Rolex"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update: got %d %s", rr.Code, rr.Body.String())
	}
	if got := decode[FiltersResponse](t, rr).Filters.Brand; got != "Rolex" {
		t.Errorf("brand: got %q", got)
	}

	expectError(t, do(t, h, http.MethodPut, "/sessions/"+id+"/filters/serial", `{"value":"x"}`), http.StatusBadRequest, CodeUnknownField)
}

func TestToggleAdvanced(t *testing.T) {
	h := newTestServer(t, &mockCatalog{})
	id := createSession(t, h)

	loginAs(t, h, id, "free")
	expectError(t, do(t, h, http.MethodPost, "/sessions/"+id+"/advanced/toggle", ""), http.StatusForbidden, CodeAdvancedUnavailable)

	loginAs(t, h, id, "dealer")
	rr := do(t, h, http.MethodPost, "/sessions/"+id+"/advanced/toggle", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("toggle: got %d", rr.Code)
	}
	if !decode[ToggleResponse](t, rr).AdvancedOpen {
		t.Error("panel should be open after toggle")
	}
}

func TestSuggestions(t *testing.T) {
	h := newTestServer(t, &mockCatalog{suggestions: []string{"116500LN", "116519LN"}})
	id := createSession(t, h)
	loginAs(t, h, id, "dealer")

	do(t, h, http.MethodPut, "/sessions/"+id+"/filters/reference", `{"value":"1165"}`)
	rr := do(t, h, http.MethodGet, "/sessions/"+id+"/suggestions", "")
	if got := decode[SuggestionsResponse](t, rr).Suggestions; len(got) != 2 {
		t.Fatalf("suggestions: got %v", got)
	}

	rr = do(t, h, http.MethodPost, "/sessions/"+id+"/suggestions/select", `{"value":"116500LN"}`)
	if got := decode[FiltersResponse](t, rr).Filters.Reference; got != "116500LN" {
		t.Errorf("reference after select: got %q", got)
	}
	rr = do(t, h, http.MethodGet, "/sessions/"+id+"/suggestions", "")
	if got := decode[SuggestionsResponse](t, rr).Suggestions; len(got) != 0 {
		t.Errorf("suggestions should clear after select, got %v", got)
	}
}

func TestSearch_Basic(t *testing.T) {
	cat := &mockCatalog{records: []result.Record{{ID: "1", ReferenceCode: "116500LN"}}}
	h := newTestServer(t, cat)
	id := createSession(t, h)
	loginAs(t, h, id, "dealer")
	do(t, h, http.MethodPut, "/sessions/"+id+"/filters/reference", `{"value":"116500LN"}`)

	rr := do(t, h, http.MethodPost, "/sessions/"+id+"/search", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("search: got %d %s", rr.Code, rr.Body.String())
	}
	resp := decode[SearchResponse](t, rr)
	if !resp.Dispatched || resp.Mode != "basic" {
		t.Errorf("unexpected report: %+v", resp)
	}
	if !resp.Presentation.Visible || len(resp.Presentation.Results) != 1 {
		t.Errorf("presentation: %+v", resp.Presentation)
	}

	rr = do(t, h, http.MethodGet, "/sessions/"+id+"/history", "")
	hist := decode[HistoryResponse](t, rr)
	if len(hist.Entries) != 1 || hist.Version == 0 {
		t.Fatalf("history after search: %+v", hist)
	}
	if hist.Entries[0].Filters.Reference != "116500LN" {
		t.Errorf("history filters: %+v", hist.Entries[0].Filters)
	}
}

func TestSearch_EmptyFiltersNotDispatched(t *testing.T) {
	h := newTestServer(t, &mockCatalog{})
	id := createSession(t, h)

	rr := do(t, h, http.MethodPost, "/sessions/"+id+"/search", "")
	resp := decode[SearchResponse](t, rr)
	if resp.Dispatched {
		t.Error("empty filters should not dispatch")
	}
	if resp.SkipReason == "" {
		t.Error("skip reason should be reported")
	}
	if resp.Presentation.Visible {
		t.Error("presentation should stay hidden")
	}
}

func TestSearch_BackendFailure(t *testing.T) {
	cat := &mockCatalog{searchErr: domain.NewTransportError("search_by_reference", http.StatusInternalServerError, nil)}
	h := newTestServer(t, cat)
	id := createSession(t, h)
	loginAs(t, h, id, "dealer")
	do(t, h, http.MethodPut, "/sessions/"+id+"/filters/reference", `{"value":"116500LN"}`)

	rr := do(t, h, http.MethodPost, "/sessions/"+id+"/search", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("search failure should still answer 200, got %d", rr.Code)
	}
	resp := decode[SearchResponse](t, rr)
	if !resp.Presentation.Visible || len(resp.Presentation.Results) != 0 {
		t.Errorf("failed search should open empty presentation: %+v", resp.Presentation)
	}

	hist := decode[HistoryResponse](t, do(t, h, http.MethodGet, "/sessions/"+id+"/history", ""))
	if len(hist.Entries) != 0 {
		t.Errorf("failed search should not be recorded, got %d entries", len(hist.Entries))
	}
}

func TestSearch_FailureRendersLikeEmptyResult(t *testing.T) {
	search := func(cat *mockCatalog) string {
		h := newTestServer(t, cat)
		id := createSession(t, h)
		loginAs(t, h, id, "dealer")
		do(t, h, http.MethodPut, "/sessions/"+id+"/filters/reference", `{"value":"116500LN"}`)
		rr := do(t, h, http.MethodPost, "/sessions/"+id+"/search", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("search: got %d %s", rr.Code, rr.Body.String())
		}
		return rr.Body.String()
	}

	failed := search(&mockCatalog{searchErr: errors.New("connection refused")})
	empty := search(&mockCatalog{records: []result.Record{}})
	if failed != empty {
		t.Errorf("failed and empty searches must render the same:\nfailed: %s\nempty:  %s", failed, empty)
	}
	if strings.Contains(failed, "fail") {
		t.Errorf("response leaks the failure: %s", failed)
	}
}

func TestReplayHistory(t *testing.T) {
	cat := &mockCatalog{records: []result.Record{{ID: "1"}}}
	h := newTestServer(t, cat)
	id := createSession(t, h)
	loginAs(t, h, id, "dealer")
	do(t, h, http.MethodPut, "/sessions/"+id+"/filters/reference", `{"value":"116500LN"}`)
	do(t, h, http.MethodPut, "/sessions/"+id+"/filters/color", `{"value":"black"}`)
	do(t, h, http.MethodPost, "/sessions/"+id+"/search", "")
	do(t, h, http.MethodPut, "/sessions/"+id+"/filters/reference", `{"value":"other"}`)
	do(t, h, http.MethodPost, "/sessions/"+id+"/presentation/dismiss", "")

	hist := decode[HistoryResponse](t, do(t, h, http.MethodGet, "/sessions/"+id+"/history", ""))
	if len(hist.Entries) != 1 {
		t.Fatalf("history: %+v", hist)
	}

	rr := do(t, h, http.MethodPost, "/sessions/"+id+"/history/"+hist.Entries[0].ID+"/replay", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("replay: got %d %s", rr.Code, rr.Body.String())
	}
	resp := decode[SearchResponse](t, rr)
	if resp.Trigger != "replay" || resp.Mode != "advanced" {
		t.Errorf("replay report: %+v", resp)
	}
	if !resp.Presentation.Visible {
		t.Error("replay should open presentation")
	}

	f := decode[FiltersResponse](t, do(t, h, http.MethodGet, "/sessions/"+id+"/filters", ""))
	if f.Filters.Reference != "116500LN" || !f.AdvancedOpen {
		t.Errorf("filters after replay: %+v", f)
	}

	hist = decode[HistoryResponse](t, do(t, h, http.MethodGet, "/sessions/"+id+"/history", ""))
	if len(hist.Entries) != 1 {
		t.Errorf("replay should not record history, got %d entries", len(hist.Entries))
	}

	expectError(t, do(t, h, http.MethodPost, "/sessions/"+id+"/history/nope/replay", ""), http.StatusNotFound, CodeNotFound)
}

func TestClearHistory(t *testing.T) {
	h := newTestServer(t, &mockCatalog{})
	id := createSession(t, h)
	loginAs(t, h, id, "dealer")
	do(t, h, http.MethodPut, "/sessions/"+id+"/filters/reference", `{"value":"116500LN"}`)
	do(t, h, http.MethodPost, "/sessions/"+id+"/search", "")

	if rr := do(t, h, http.MethodDelete, "/sessions/"+id+"/history", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("clear: got %d", rr.Code)
	}
	hist := decode[HistoryResponse](t, do(t, h, http.MethodGet, "/sessions/"+id+"/history", ""))
	if len(hist.Entries) != 0 {
		t.Errorf("history should be empty, got %d", len(hist.Entries))
	}
	if hist.Entries == nil {
		t.Error("entries should encode as an empty list")
	}
}

func TestDismissPresentation(t *testing.T) {
	cat := &mockCatalog{records: []result.Record{{ID: "1"}}}
	h := newTestServer(t, cat)
	id := createSession(t, h)
	do(t, h, http.MethodPut, "/sessions/"+id+"/filters/reference", `{"value":"116500LN"}`)
	do(t, h, http.MethodPost, "/sessions/"+id+"/search", "")

	rr := do(t, h, http.MethodPost, "/sessions/"+id+"/presentation/dismiss", "")
	p := decode[presentation.State](t, rr)
	if p.Visible {
		t.Error("dismiss should hide presentation")
	}
	if len(p.Results) != 1 {
		t.Errorf("dismiss should retain results, got %d", len(p.Results))
	}
}

func TestHealthCheck(t *testing.T) {
	cat := &mockCatalog{}
	h := newTestServer(t, cat)

	rr := do(t, h, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("healthy: got %d", rr.Code)
	}
	if s := decode[HealthResponse](t, rr).Status; s != string(healthuc.Healthy) {
		t.Errorf("status: got %q", s)
	}

	cat.healthErr = errors.New("down")
	rr = do(t, h, http.MethodGet, "/health", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("unhealthy: got %d", rr.Code)
	}
}

func TestRouteNotFound(t *testing.T) {
	h := newTestServer(t, &mockCatalog{})
	expectError(t, do(t, h, http.MethodGet, "/nope", ""), http.StatusNotFound, CodeNotFound)
}

func TestHandleDomainError_Internal(t *testing.T) {
	s := NewServer(nil, nil, nil)
	rr := httptest.NewRecorder()
	s.handleDomainError(rr, errors.New("boom: secret detail"))
	expectError(t, rr, http.StatusInternalServerError, CodeInternalError)
	if strings.Contains(rr.Body.String(), "secret") {
		t.Error("internal error details must not leak")
	}
}

func TestHandleDomainError_TransportMapsTo502(t *testing.T) {
	s := NewServer(nil, nil, nil)
	rr := httptest.NewRecorder()
	s.handleDomainError(rr, domain.NewTransportError("autocomplete", http.StatusBadGateway, nil))
	expectError(t, rr, http.StatusBadGateway, CodeBackendUnavailable)
}
