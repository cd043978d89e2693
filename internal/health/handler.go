// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

type Checker interface {
	Ping(ctx context.Context) error
}

// Handler serves liveness and readiness. Readiness pings every registered
// dependency; a process running without Supabase credentials reports
// "degraded" but stays ready because every data call answers with a
// not-configured error instead of failing.
type Handler struct {
	deps       []dependency
	configured bool
	ready      atomic.Bool
	shutdown   atomic.Bool
}

type dependency struct {
	name    string
	checker Checker
}

func NewHandler(configured bool) *Handler {
	h := &Handler{configured: configured}
	h.ready.Store(true)
	return h
}

// AddCheck registers a dependency pinged on readiness. Nil checkers are
// ignored so optional dependencies can be passed through unconditionally.
func (h *Handler) AddCheck(name string, c Checker) *Handler {
	if c != nil {
		h.deps = append(h.deps, dependency{name: name, checker: c})
	}
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "shutting_down",
		})
		return
	}

	h.writeStatus(w, http.StatusOK, StatusResponse{
		Status: "ok",
	})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "shutting_down",
		})
		return
	}

	if !h.ready.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "not_ready",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := h.runHealthChecks(ctx)

	allHealthy := true
	for _, check := range checks {
		if !check.Healthy {
			allHealthy = false
			break
		}
	}

	status := "ok"
	statusCode := http.StatusOK
	switch {
	case !allHealthy:
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	case !h.configured:
		status = "degraded"
	}

	h.writeStatus(w, statusCode, ReadinessResponse{
		Status:     status,
		Configured: h.configured,
		Checks:     checks,
	})
}

func (h *Handler) runHealthChecks(ctx context.Context) []HealthCheck {
	var wg sync.WaitGroup
	checks := make([]HealthCheck, len(h.deps))

	for i, dep := range h.deps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checks[i] = ping(ctx, dep)
		}()
	}

	wg.Wait()
	return checks
}

func ping(ctx context.Context, dep dependency) HealthCheck {
	check := HealthCheck{
		Name:    dep.name,
		Healthy: true,
	}

	start := time.Now()
	err := dep.checker.Ping(ctx)
	check.Latency = time.Since(start).String()

	if err != nil {
		check.Healthy = false
		check.Message = "ping failed"
	}

	return check
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

func (h *Handler) writeStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response
	_ = json.NewEncoder(w).Encode(data)
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status     string        `json:"status"`
	Configured bool          `json:"configured"`
	Checks     []HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
