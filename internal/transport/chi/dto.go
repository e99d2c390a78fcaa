package chi

import (
	"github.com/kailas-cloud/reflookup/internal/domain/capability"
	"github.com/kailas-cloud/reflookup/internal/domain/filter"
	domhist "github.com/kailas-cloud/reflookup/internal/domain/history"
	"github.com/kailas-cloud/reflookup/internal/domain/session"
	"github.com/kailas-cloud/reflookup/internal/usecase/execution"
	"github.com/kailas-cloud/reflookup/internal/usecase/presentation"
)

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest          ErrorCode = "bad_request"
	CodeNotFound            ErrorCode = "not_found"
	CodeSessionNotFound     ErrorCode = "session_not_found"
	CodeUnknownField        ErrorCode = "unknown_field"
	CodeAdvancedUnavailable ErrorCode = "advanced_unavailable"
	CodeBackendUnavailable  ErrorCode = "backend_unavailable"
	CodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// SessionResponse describes a lookup session.
type SessionResponse struct {
	ID           string                  `json:"id"`
	User         *session.User           `json:"user"`
	Capabilities capability.Capabilities `json:"capabilities"`
	Filters      filter.State            `json:"filters"`
	AdvancedOpen bool                    `json:"advanced_open"`
	Suggestions  []string                `json:"suggestions"`
	Presentation presentation.State      `json:"presentation"`
}

// UserRequest is the body of PUT /sessions/{id}/user.
type UserRequest struct {
	UserID string `json:"user_id"`
	PlanID string `json:"plan_id"`
}

// ValueRequest carries a single string value.
type ValueRequest struct {
	Value string `json:"value"`
}

// FiltersResponse is the filter state with the panel flags.
type FiltersResponse struct {
	Filters           filter.State `json:"filters"`
	AdvancedOpen      bool         `json:"advanced_open"`
	AdvancedAvailable bool         `json:"advanced_available"`
}

// ToggleResponse is the body of POST /sessions/{id}/advanced/toggle.
type ToggleResponse struct {
	AdvancedOpen bool `json:"advanced_open"`
}

// SuggestionsResponse lists reference suggestions.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// SearchResponse reports a search invocation and the resulting drawer state.
// A failed search renders exactly like one with no results.
type SearchResponse struct {
	Dispatched   bool               `json:"dispatched"`
	Trigger      string             `json:"trigger"`
	Mode         string             `json:"mode,omitempty"`
	SkipReason   string             `json:"skip_reason,omitempty"`
	Presentation presentation.State `json:"presentation"`
}

// HistoryResponse lists history entries with the change version.
type HistoryResponse struct {
	Version uint64          `json:"version"`
	Entries []domhist.Entry `json:"entries"`
}

func searchResponse(rep execution.Report, p presentation.State) SearchResponse {
	resp := SearchResponse{
		Dispatched:   rep.Dispatched,
		Trigger:      string(rep.Trigger),
		SkipReason:   rep.SkipReason,
		Presentation: p,
	}
	if rep.Dispatched {
		resp.Mode = string(rep.Mode)
	}
	return resp
}
