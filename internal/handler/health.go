package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"star-admin-api/pkg/response"
)

// StartTime tracks when the server started for uptime calculation
var StartTime = time.Now()

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves the service-level endpoints.
type Handler struct {
	db      Pinger
	version string
}

// New creates a new handler.
func New(db Pinger, version string) *Handler {
	return &Handler{db: db, version: version}
}

// Root handles GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	response.OK(w, "Admin Panel API is running", map[string]string{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status        string       `json:"status"`
	Timestamp     time.Time    `json:"timestamp"`
	Version       string       `json:"version"`
	UptimeSeconds int64        `json:"uptimeSeconds"`
	Checks        HealthChecks `json:"checks"`
}

// HealthChecks represents the individual dependency checks.
type HealthChecks struct {
	Database string  `json:"database"`
	MemoryMB float64 `json:"memoryMb"`
}

// Health handles GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memoryMB := float64(memStats.Alloc) / 1024 / 1024

	resp := HealthResponse{
		Status:        "healthy",
		Timestamp:     time.Now().UTC(),
		Version:       h.version,
		UptimeSeconds: int64(time.Since(StartTime).Seconds()),
		Checks: HealthChecks{
			Database: "ok",
			MemoryMB: float64(int(memoryMB*100)) / 100,
		},
	}

	status := http.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			resp.Status = "degraded"
			resp.Checks.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	response.JSON(w, status, "", resp)
}
