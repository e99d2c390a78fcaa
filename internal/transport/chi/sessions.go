package chi

import (
	"net/http"

	"github.com/kailas-cloud/reflookup/internal/domain/session"
	"github.com/kailas-cloud/reflookup/internal/usecase/lookup"
)

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, _ *http.Request) {
	e := s.sessions.Create()
	writeJSON(w, http.StatusCreated, sessionResponse(e))
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(e))
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.sessions.Delete(id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetUser handles PUT /sessions/{id}/user.
func (s *Server) SetUser(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	var req UserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "user_id is required")
		return
	}
	caps := e.SetUser(&session.User{ID: req.UserID, PlanID: req.PlanID})
	writeJSON(w, http.StatusOK, caps)
}

// ClearUser handles DELETE /sessions/{id}/user.
func (s *Server) ClearUser(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, e.SetUser(nil))
}

// GetCapabilities handles GET /sessions/{id}/capabilities.
func (s *Server) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, e.Capabilities())
}

// GetFilters handles GET /sessions/{id}/filters.
func (s *Server) GetFilters(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, filtersResponse(e))
}

// UpdateFilter handles PUT /sessions/{id}/filters/{field}.
func (s *Server) UpdateFilter(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	field, ok := pathParam(w, r, "field")
	if !ok {
		return
	}
	var req ValueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := e.UpdateField(r.Context(), field, req.Value); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filtersResponse(e))
}

// ToggleAdvanced handles POST /sessions/{id}/advanced/toggle.
func (s *Server) ToggleAdvanced(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	open, err := e.ToggleAdvanced()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleResponse{AdvancedOpen: open})
}

// GetSuggestions handles GET /sessions/{id}/suggestions.
func (s *Server) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, SuggestionsResponse{Suggestions: e.Suggestions()})
}

// SelectSuggestion handles POST /sessions/{id}/suggestions/select.
func (s *Server) SelectSuggestion(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	var req ValueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := e.SelectSuggestion(req.Value); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filtersResponse(e))
}

// Search handles POST /sessions/{id}/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	rep, err := e.Submit(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(rep, e.Presentation()))
}

// ListHistory handles GET /sessions/{id}/history.
func (s *Server) ListHistory(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	entries, version, err := e.History(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Version: version, Entries: entries})
}

// ClearHistory handles DELETE /sessions/{id}/history.
func (s *Server) ClearHistory(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := e.ClearHistory(r.Context()); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReplayHistory handles POST /sessions/{id}/history/{entryID}/replay.
func (s *Server) ReplayHistory(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	entryID, ok := pathParam(w, r, "entryID")
	if !ok {
		return
	}
	rep, err := e.ReplayEntry(r.Context(), entryID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(rep, e.Presentation()))
}

// GetPresentation handles GET /sessions/{id}/presentation.
func (s *Server) GetPresentation(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, e.Presentation())
}

// DismissPresentation handles POST /sessions/{id}/presentation/dismiss.
func (s *Server) DismissPresentation(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	e.Dismiss()
	writeJSON(w, http.StatusOK, e.Presentation())
}

func sessionResponse(e *lookup.Engine) SessionResponse {
	return SessionResponse{
		ID:           e.ID(),
		User:         e.User(),
		Capabilities: e.Capabilities(),
		Filters:      e.Filters(),
		AdvancedOpen: e.AdvancedOpen(),
		Suggestions:  e.Suggestions(),
		Presentation: e.Presentation(),
	}
}

func filtersResponse(e *lookup.Engine) FiltersResponse {
	return FiltersResponse{
		Filters:           e.Filters(),
		AdvancedOpen:      e.AdvancedOpen(),
		AdvancedAvailable: e.Capabilities().AdvancedSearch,
	}
}
