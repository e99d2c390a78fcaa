package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reflookup/internal/domain"
	"github.com/kailas-cloud/reflookup/internal/metrics"
	healthuc "github.com/kailas-cloud/reflookup/internal/usecase/health"
	"github.com/kailas-cloud/reflookup/internal/usecase/lookup"
)

// maxBodyBytes bounds request bodies; every payload here is a few fields.
const maxBodyBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes lookup sessions over JSON HTTP.
type Server struct {
	sessions      *lookup.Registry
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(sessions *lookup.Registry, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		sessions: sessions,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrUnknownField, http.StatusBadRequest, CodeUnknownField),
		sentinelHandler(domain.ErrAdvancedUnavailable, http.StatusForbidden, CodeAdvancedUnavailable),
		sentinelHandler(domain.ErrTransport, http.StatusBadGateway, CodeBackendUnavailable),
	}
	return s
}

// Handler builds the router with the standard middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())
	s.Routes(r)
	return r
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Post("/sessions", s.CreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", s.GetSession)
		r.Delete("/", s.DeleteSession)

		r.Put("/user", s.SetUser)
		r.Delete("/user", s.ClearUser)
		r.Get("/capabilities", s.GetCapabilities)

		r.Get("/filters", s.GetFilters)
		r.Put("/filters/{field}", s.UpdateFilter)
		r.Post("/advanced/toggle", s.ToggleAdvanced)

		r.Get("/suggestions", s.GetSuggestions)
		r.Post("/suggestions/select", s.SelectSuggestion)

		r.Post("/search", s.Search)

		r.Get("/history", s.ListHistory)
		r.Delete("/history", s.ClearHistory)
		r.Post("/history/{entryID}/replay", s.ReplayHistory)

		r.Get("/presentation", s.GetPresentation)
		r.Post("/presentation/dismiss", s.DismissPresentation)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, HealthResponse{Status: string(healthuc.Healthy), Checks: map[string]string{}})
		return
	}
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// session resolves the {id} path parameter to an open session.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*lookup.Engine, bool) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return nil, false
	}
	e, err := s.sessions.Get(id)
	if err != nil {
		s.handleDomainError(w, err)
		return nil, false
	}
	return e, true
}

func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid format for parameter "+name)
		return "", false
	}
	return v, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSessionNotFound,
		domain.ErrNotFound,
		domain.ErrUnknownField,
		domain.ErrAdvancedUnavailable,
		domain.ErrTransport,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
