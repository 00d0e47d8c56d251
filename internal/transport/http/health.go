package http

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// HealthStatus is the per-dependency entry of the health response.
type HealthStatus struct {
	Status string `json:"status"`
}

// HealthResponse maps dependency name to status.
type HealthResponse map[string]HealthStatus

func handleHealth(logger *zap.Logger, checks map[string]Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		results := make(HealthResponse, len(checks))
		status := http.StatusOK

		for name, c := range checks {
			if err := c.Check(ctx); err != nil {
				logger.Error("health check failed", zap.String("name", name), zap.Error(err))
				results[name] = HealthStatus{Status: "error"}
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = HealthStatus{Status: "ok"}
		}

		writeJSON(w, status, results)
	}
}
