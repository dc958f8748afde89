package handlers

import (
	"net/http"
	"time"

	"bistro-backend/pkg/utils"
)

// Pinger reports whether an optional backend is reachable
type Pinger interface {
	Ping() error
}

// Health reports liveness and the state of each configured backend.
// A failing optional backend degrades the status but never fails the check.
func Health(started time.Time, backends map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		checks := make(map[string]string, len(backends))
		for name, b := range backends {
			if err := b.Ping(); err != nil {
				checks[name] = err.Error()
				status = "degraded"
				continue
			}
			checks[name] = "ok"
		}
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"status": status,
			"uptime": time.Since(started).Round(time.Second).String(),
			"checks": checks,
		})
	}
}
