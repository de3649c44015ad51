package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"

	"github.com/tonzxz12/Findr-sub000/internal/middleware"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler creates a health handler over the named dependencies
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// ComponentHealth is the state of one dependency
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string                      `json:"status"`
	Timestamp  time.Time                   `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
}

// RegisterRoutes registers the probes
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HandleHealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", h.HandleReadinessProbe).Methods(http.MethodGet)
	router.HandleFunc("/health/live", h.HandleLivenessProbe).Methods(http.MethodGet)
}

// HandleHealthCheck reports every dependency
func (h *HealthHandler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := h.check(r.Context())
	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	middleware.WriteJSON(w, status, resp)
}

// HandleReadinessProbe fails while any dependency is unreachable
func (h *HealthHandler) HandleReadinessProbe(w http.ResponseWriter, r *http.Request) {
	if h.check(r.Context()).Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("Service Unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Ready"))
}

// HandleLivenessProbe returns 200 while the process serves requests
func (h *HealthHandler) HandleLivenessProbe(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *HealthHandler) check(ctx context.Context) HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]ComponentHealth, len(names)),
	}
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Components[name] = ComponentHealth{Status: "unhealthy", Message: err.Error()}
			continue
		}
		resp.Components[name] = ComponentHealth{Status: "healthy"}
	}
	return resp
}
