package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/backend/analytics"
	"github.com/deepagents/control/backend/auth"
	"github.com/deepagents/control/backend/delegation"
	"github.com/deepagents/control/backend/event"
	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/metrics"
	"github.com/deepagents/control/backend/secret"
	"github.com/deepagents/control/shared/config"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const maxBodyBytes = 1 << 20

type HandlerOptions struct {
	DB          *memory.Client
	Encryption  *secret.Client
	Auth        *auth.Service
	Delegations *delegation.Service
	Bus         *event.Bus
	Analytics   analytics.Client
	Registry    *prometheus.Registry
	RateLimit   config.RateLimitConfig
	Metrics     config.MetricsConfig
	CORSOrigins []string
	Logger      *slog.Logger
	Version     string
}

type Handler struct {
	db          *memory.Client
	encryption  *secret.Client
	auth        *auth.Service
	delegations *delegation.Service
	bus         *event.Bus
	analytics   analytics.Client
	metrics     *metrics.HTTPMetrics
	logger      *slog.Logger
	version     string

	mux     *http.ServeMux
	handler http.Handler
}

func NewHandler(opts HandlerOptions) *Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Analytics == nil {
		opts.Analytics = analytics.NoopClient{}
	}
	if opts.Delegations == nil {
		opts.Delegations = delegation.NewService(delegation.NewStore(opts.DB), delegation.WithLogger(opts.Logger))
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	handler := &Handler{
		db:          opts.DB,
		encryption:  opts.Encryption,
		auth:        opts.Auth,
		delegations: opts.Delegations,
		bus:         opts.Bus,
		analytics:   opts.Analytics,
		metrics:     metrics.NewHTTPMetrics(opts.Registry),
		logger:      opts.Logger,
		version:     opts.Version,
		mux:         http.NewServeMux(),
	}

	handler.registerRoutes(opts.Registry, opts.Metrics)
	handler.handler = chain(handler.mux,
		recoverer(handler.logger),
		requestID,
		accessLog(handler.logger),
		securityHeaders,
		cors(opts.CORSOrigins),
		rateLimit(opts.RateLimit),
	)
	return handler
}

func (h *Handler) registerRoutes(reg *prometheus.Registry, cfg config.MetricsConfig) {
	h.route("GET /health", h.health)
	h.route("GET /health/ready", h.ready)
	if cfg.Enabled {
		h.mux.Handle("GET "+cfg.Path, metrics.Handler(reg))
	}

	h.route("POST /api/v1/auth/register", h.register)
	h.route("POST /api/v1/auth/login", h.login)
	h.route("GET /api/v1/auth/me", h.authenticated(h.me))

	h.route("POST /api/v1/agents", h.authenticated(h.createAgent))
	h.route("GET /api/v1/agents", h.authenticated(h.listAgents))
	h.route("GET /api/v1/agents/{id}", h.authenticated(h.getAgent))
	h.route("PATCH /api/v1/agents/{id}", h.authenticated(h.updateAgent))
	h.route("DELETE /api/v1/agents/{id}", h.authenticated(h.deleteAgent))
	h.route("POST /api/v1/agents/{id}/restore", h.authenticated(h.restoreAgent))

	h.route("POST /api/v1/agents/{id}/subagents", h.authenticated(h.addSubagent))
	h.route("GET /api/v1/agents/{id}/subagents", h.authenticated(h.listSubagents))
	h.route("PATCH /api/v1/agents/{id}/subagents/{subagent_id}", h.authenticated(h.updateSubagent))
	h.route("DELETE /api/v1/agents/{id}/subagents/{subagent_id}", h.authenticated(h.removeSubagent))

	h.route("POST /api/v1/tools", h.authenticated(h.createTool))
	h.route("GET /api/v1/tools", h.authenticated(h.listTools))
	h.route("GET /api/v1/tools/{id}", h.authenticated(h.getTool))
	h.route("PATCH /api/v1/tools/{id}", h.authenticated(h.updateTool))
	h.route("DELETE /api/v1/tools/{id}", h.authenticated(h.deleteTool))

	h.route("POST /api/v1/templates", h.authenticated(h.createTemplate))
	h.route("GET /api/v1/templates", h.authenticated(h.listTemplates))
	h.route("GET /api/v1/templates/{id}", h.authenticated(h.getTemplate))
	h.route("PATCH /api/v1/templates/{id}", h.authenticated(h.updateTemplate))
	h.route("DELETE /api/v1/templates/{id}", h.authenticated(h.deleteTemplate))
	h.route("POST /api/v1/templates/{id}/instantiate", h.authenticated(h.instantiateTemplate))

	h.route("POST /api/v1/agents/{id}/executions", h.authenticated(h.createExecution))
	h.route("GET /api/v1/executions", h.authenticated(h.listExecutions))
	h.route("GET /api/v1/executions/{id}", h.authenticated(h.getExecution))
	h.route("GET /api/v1/executions/{id}/events", h.authenticated(h.listExecutionEvents))
	h.route("POST /api/v1/executions/{id}/cancel", h.authenticated(h.cancelExecution))
}

// handlerFunc is an HTTP handler that reports failures as errors. They are
// translated to responses by apiError.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (h *Handler) route(pattern string, fn handlerFunc) {
	route := pattern
	if _, path, ok := strings.Cut(pattern, " "); ok {
		route = path
	}

	h.mux.Handle(pattern, h.metrics.Instrument(route, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.writeError(w, r, err)
		}
	})))
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

// Error is an error with the HTTP status it is reported with.
type Error struct {
	Status int
	Err    error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(status int, format string, args ...any) *Error {
	return &Error{Status: status, Err: fmt.Errorf(format, args...)}
}

func apiError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case delegation.IsInvalid(err):
		return &Error{Status: http.StatusBadRequest, Err: err}
	case delegation.IsNotFound(err):
		return &Error{Status: http.StatusNotFound, Err: err}
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInactiveUser):
		return &Error{Status: http.StatusUnauthorized, Err: err}
	case errors.Is(err, auth.ErrUserExists), errors.Is(err, auth.ErrInvalidInput):
		return &Error{Status: http.StatusBadRequest, Err: err}
	case memory.IsNotFound(err):
		return &Error{Status: http.StatusNotFound, Err: sanitizeError(err)}
	case memory.IsUniqueViolation(err):
		return &Error{Status: http.StatusBadRequest, Err: errors.New("resource already exists")}
	}

	return &Error{Status: http.StatusInternalServerError, Err: sanitizeError(err)}
}

func sanitizeError(err error) error {
	return errors.New(strings.ReplaceAll(err.Error(), "memory: ", ""))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apiError(err)
	detail := apiErr.Error()

	if apiErr.Status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
		}
		detail = http.StatusText(apiErr.Status)
	}
	if apiErr.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	writeJSON(w, apiErr.Status, v1.ErrorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return newError(http.StatusUnprocessableEntity, "invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, newError(http.StatusUnprocessableEntity, "invalid %s format: %v", name, err)
	}
	return id, nil
}

type page struct {
	skip, limit int
}

func pagination(r *http.Request) (page, error) {
	p := page{limit: v1.DefaultLimit}
	q := r.URL.Query()

	if s := q.Get("skip"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return p, newError(http.StatusUnprocessableEntity, "skip must be a non-negative integer")
		}
		p.skip = n
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > v1.MaxLimit {
			return p, newError(http.StatusUnprocessableEntity, "limit must be between 1 and %d", v1.MaxLimit)
		}
		p.limit = n
	}
	return p, nil
}
