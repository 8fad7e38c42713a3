package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"
)

const (
	depHealthy       = "healthy"
	depConfigured    = "configured"
	depNotConfigured = "not configured"
)

// Check tests one dependency. A nil Check means the dependency is not configured.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks    map[string]Check
	optional  map[string]bool
	version   string
	startTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		checks:    map[string]Check{},
		optional:  map[string]bool{},
		version:   version,
		startTime: time.Now(),
	}
}

// Register adds a dependency check.
func (h *HealthHandler) Register(name string, check Check) *HealthHandler {
	h.checks[name] = check
	return h
}

// Configured reports a dependency that is only checked for presence.
func (h *HealthHandler) Configured(name string, ok bool) *HealthHandler {
	h.checks[name] = nil
	h.optional[name] = ok
	return h
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(map[string]string, len(names))
	status := "healthy"
	for _, name := range names {
		check := h.checks[name]
		switch {
		case check == nil && h.optional[name]:
			deps[name] = depConfigured
		case check == nil:
			deps[name] = depNotConfigured
		default:
			if err := check(ctx); err != nil {
				deps[name] = fmt.Sprintf("unhealthy: %v", err)
				status = "degraded"
			} else {
				deps[name] = depHealthy
			}
		}
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      h.version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}
