// Package health implements liveness and readiness endpoints with named
// dependency checks.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// checkTimeout bounds the total time readiness spends probing dependencies.
const checkTimeout = 5 * time.Second

// Checker probes one dependency and returns nil when it is usable.
type Checker func(ctx context.Context) error

// Status is the reported health of a component or of the whole service.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// Response is the body of both health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one dependency check.
type CheckResult struct {
	Status   Status `json:"status"`
	Error    string `json:"error,omitempty"`
	Critical bool   `json:"critical"`
}

type checkerEntry struct {
	check    Checker
	critical bool
}

// Handler serves the health endpoints. Zero value is not usable; construct
// with NewHandler.
type Handler struct {
	mu       sync.RWMutex
	checkers map[string]checkerEntry
}

// NewHandler returns a Handler with no checks registered.
func NewHandler() *Handler {
	return &Handler{checkers: make(map[string]checkerEntry)}
}

// Register adds a critical check. Registering the same name again replaces
// the previous check.
func (h *Handler) Register(name string, checker Checker) {
	h.RegisterCritical(name, checker)
}

// RegisterCritical adds a check whose failure makes readiness return 503.
func (h *Handler) RegisterCritical(name string, checker Checker) {
	h.register(name, checker, true)
}

// RegisterNonCritical adds a check whose failure only degrades the reported
// status; readiness stays 200 so the service keeps receiving traffic.
func (h *Handler) RegisterNonCritical(name string, checker Checker) {
	h.register(name, checker, false)
}

func (h *Handler) register(name string, checker Checker, critical bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checkerEntry{check: checker, critical: critical}
}

func (h *Handler) snapshot() map[string]checkerEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	checkers := make(map[string]checkerEntry, len(h.checkers))
	for name, entry := range h.checkers {
		checkers[name] = entry
	}
	return checkers
}

// runChecks probes every registered dependency and folds the results into
// an overall status: any critical failure is down, any other failure is
// degraded.
func (h *Handler) runChecks(ctx context.Context) Response {
	checkers := h.snapshot()

	overall := StatusUp
	checks := make(map[string]CheckResult, len(checkers))
	for name, entry := range checkers {
		result := CheckResult{Status: StatusUp, Critical: entry.critical}
		if err := entry.check(ctx); err != nil {
			result.Status = StatusDown
			result.Error = err.Error()
			switch {
			case entry.critical:
				overall = StatusDown
			case overall == StatusUp:
				overall = StatusDegraded
			}
		}
		checks[name] = result
	}

	return Response{Status: overall, Timestamp: time.Now().UTC(), Checks: checks}
}

func writeResponse(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// LivenessHandler reports whether the process is running. It never probes
// dependencies and always returns 200.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, http.StatusOK, Response{
			Status:    StatusUp,
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadinessHandler probes every registered dependency. A failing critical
// check returns 503 with status down; failing non-critical checks return
// 200 with status degraded.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		resp := h.runChecks(ctx)
		status := http.StatusOK
		if resp.Status == StatusDown {
			status = http.StatusServiceUnavailable
		}
		writeResponse(w, status, resp)
	}
}
