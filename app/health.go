package app

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler returns an HTTP handler for component-level health.
func (h *Host) HealthHandler() http.Handler {
	return &GuardHealthHandler{host: h}
}

// MetricsHandler serves the guard collectors in Prometheus text format.
func (h *Host) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})
}

// GuardHealthHandler serves component-level health status.
type GuardHealthHandler struct {
	host *Host
}

type healthReport struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	ChainID    string            `json:"chain_id,omitempty"`
	Height     int64             `json:"height,omitempty"`
	Components []componentStatus `json:"components"`
}

type componentStatus struct {
	Name    string      `json:"name"`
	Healthy bool        `json:"healthy"`
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func (g *GuardHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if g.host == nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(healthReport{
			Status:    "unhealthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Components: []componentStatus{
				{
					Name:    "host",
					Healthy: false,
					Status:  "unhealthy",
					Message: "host not initialized",
				},
			},
		})
		return
	}

	components := make([]componentStatus, 0, 3)

	// Protocol state. A paused contract is alive but not accepting mutations.
	stats, err := g.host.Stats()
	switch {
	case err != nil:
		components = append(components, componentStatus{
			Name:    "guard_state",
			Healthy: false,
			Status:  "unhealthy",
			Message: err.Error(),
		})
	case stats.IsPaused:
		components = append(components, componentStatus{
			Name:    "guard_state",
			Healthy: true,
			Status:  "paused",
			Details: stats,
		})
	default:
		components = append(components, componentStatus{
			Name:    "guard_state",
			Healthy: true,
			Status:  "healthy",
			Details: stats,
		})
	}

	// Invariants
	if err := g.host.AssertInvariants(); err != nil {
		components = append(components, componentStatus{
			Name:    "invariants",
			Healthy: false,
			Status:  "unhealthy",
			Message: err.Error(),
		})
	} else {
		components = append(components, componentStatus{
			Name:    "invariants",
			Healthy: true,
			Status:  "healthy",
			Message: "all routes hold",
		})
	}

	// Metrics
	families, err := g.host.Registry().Gather()
	components = append(components, componentStatus{
		Name:    "metrics",
		Healthy: err == nil,
		Status:  boolStatus(err == nil),
		Details: map[string]int{"families": len(families)},
	})

	report := healthReport{
		Status:     overallStatus(components),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		ChainID:    g.host.ChainID(),
		Height:     g.host.Height(),
		Components: components,
	}

	if report.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(report)
}

func boolStatus(healthy bool) string {
	if healthy {
		return "healthy"
	}
	return "unhealthy"
}

func overallStatus(components []componentStatus) string {
	for _, c := range components {
		if !c.Healthy {
			return "unhealthy"
		}
	}
	return "healthy"
}
