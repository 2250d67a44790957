package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"bro/internal/application/port/input"
	"bro/internal/application/port/output"
	"bro/internal/domain/entity"
	"bro/internal/infrastructure/env"
)

const Version = "1.0.0"

type Handler struct {
	executor input.TaskExecutor
	browser  output.BrowserManager
	cfg      env.Config
	logger   output.LoggerPort
	started  time.Time
}

func NewHandler(
	executor input.TaskExecutor,
	browser output.BrowserManager,
	cfg env.Config,
	logger output.LoggerPort,
) *Handler {
	return &Handler{
		executor: executor,
		browser:  browser,
		cfg:      cfg,
		logger:   logger,
		started:  time.Now(),
	}
}

// handleSearch runs one browsing task. Run outcomes (success, timeout,
// failed) all come back as HTTP 200 with the envelope; only requests
// that never started a run map to error statuses.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req entity.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "BadRequest", "request body is not valid JSON")
		return
	}

	result, err := h.executor.Execute(r.Context(), req)
	if err != nil {
		switch {
		case isValidationError(err):
			h.writeError(w, r, http.StatusBadRequest, "ValidationError", err.Error())
		case errors.Is(err, output.ErrNoCapacity):
			h.writeError(w, r, http.StatusServiceUnavailable, "ServiceUnavailable",
				"no browser slots available, try again later")
		default:
			h.logger.Error("search failed before run", "error", err)
			h.writeError(w, r, http.StatusInternalServerError, "InternalError", err.Error())
		}
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

type healthResponse struct {
	Status         string    `json:"status"`
	Version        string    `json:"version"`
	UptimeSeconds  float64   `json:"uptime_seconds"`
	ActiveBrowsers int       `json:"active_browsers"`
	MaxBrowsers    int       `json:"max_browsers"`
	Environment    string    `json:"environment"`
	Timestamp      time.Time `json:"timestamp"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if h.browser.Active() >= h.browser.Capacity() {
		status = "degraded"
	}

	h.writeJSON(w, http.StatusOK, healthResponse{
		Status:         status,
		Version:        Version,
		UptimeSeconds:  time.Since(h.started).Seconds(),
		ActiveBrowsers: h.browser.Active(),
		MaxBrowsers:    h.browser.Capacity(),
		Environment:    h.cfg.Environment,
		Timestamp:      time.Now().UTC(),
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"service": map[string]any{
			"version":        Version,
			"environment":    h.cfg.Environment,
			"uptime_seconds": time.Since(h.started).Seconds(),
		},
		"configuration": map[string]any{
			"max_concurrent_browsers": h.cfg.MaxConcurrentBrowsers,
			"default_max_steps":       entity.DefaultMaxSteps,
			"default_timeout":         entity.DefaultTimeoutSeconds,
			"headless_browser":        h.cfg.HeadlessBrowser,
			"rate_limit": map[string]any{
				"requests":       h.cfg.RateLimitRequests,
				"window_seconds": h.cfg.RateLimitWindow.Seconds(),
			},
		},
		"browser_manager": map[string]any{
			"active_browsers": h.browser.Active(),
			"max_browsers":    h.browser.Capacity(),
			"available_slots": h.browser.Capacity() - h.browser.Active(),
		},
	})
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"service": "bro task service",
		"version": Version,
		"status":  "running",
		"endpoints": map[string]string{
			"search": "/api/v1/search",
			"health": "/api/v1/health",
			"status": "/api/v1/status",
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response encode failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, code int, kind, message string) {
	h.writeJSON(w, code, entity.NewErrorResponse(kind, message, middleware.GetReqID(r.Context())))
}

func isValidationError(err error) bool {
	return errors.Is(err, entity.ErrEmptyTask) ||
		errors.Is(err, entity.ErrTaskTooLong) ||
		errors.Is(err, entity.ErrInvalidMaxSteps) ||
		errors.Is(err, entity.ErrInvalidTimeout)
}
