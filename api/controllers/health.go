package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/taskercompanyofficial/taskercompany-api/api/responses"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/config"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
)

const readinessTimeout = 3 * time.Second

// Pinger is any dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tasker-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness of the backing stores. A dependency
// failure yields 503 with the per-check detail.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tasker-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		status := map[string]string{}
		healthy := true
		for name, check := range checks {
			if check == nil {
				status[name] = "not configured"
				continue
			}
			if err := check.Ping(ctx); err != nil {
				healthy = false
				status[name] = "unreachable"
				if logg != nil {
					logg.Error(logg.WithFields(ctx, map[string]any{"dependency": name}), "health.ready", err)
				}
				continue
			}
			status[name] = "ok"
		}

		code := http.StatusOK
		overall := "ready"
		if !healthy {
			code = http.StatusServiceUnavailable
			overall = "degraded"
		}
		responses.WriteSuccessStatus(w, code, map[string]any{
			"status": overall,
			"checks": status,
		})
	}
}
