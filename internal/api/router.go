package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aiox-platform/vtuber/internal/memory"
	mw "github.com/aiox-platform/vtuber/internal/middleware"
)

// Checks are the dependency checks behind /health/ready.
type Checks struct {
	Redis func(ctx context.Context) error
	NATS  func() bool // nil when NATS is not configured
}

// PoolStats is the read-only view of the pool store exposed by /status.
type PoolStats interface {
	CommentCount() int
	UtteranceCount() int
	SnapshotMemory() []memory.Entry
}

type statusResponse struct {
	Comments   int            `json:"comments"`
	Utterances int            `json:"utterances"`
	Memory     []memory.Entry `json:"memory"`
}

// NewRouter builds the ops listener: health checks, metrics and a pool status view.
func NewRouter(checks Checks, pools PoolStats) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(chimw.Recoverer)
	r.Use(mw.Metrics)

	// Liveness: always 200, no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	readinessHandler := func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{
			"status": "healthy",
			"redis":  "healthy",
			"nats":   "healthy",
		}

		status := http.StatusOK

		if checks.Redis != nil {
			if err := checks.Redis(r.Context()); err != nil {
				health["redis"] = "unhealthy"
				health["status"] = "degraded"
				status = http.StatusServiceUnavailable
			}
		} else {
			health["redis"] = "not configured"
		}

		if checks.NATS != nil && !checks.NATS() {
			health["nats"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		} else if checks.NATS == nil {
			health["nats"] = "not configured"
		}

		JSON(w, status, health)
	}

	r.Get("/health/ready", readinessHandler)
	r.Get("/health", readinessHandler)

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, statusResponse{
			Comments:   pools.CommentCount(),
			Utterances: pools.UtteranceCount(),
			Memory:     pools.SnapshotMemory(),
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
