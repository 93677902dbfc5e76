// Package health contains the health check controller.
package health

import (
	"context"
	"net/http"

	"github.com/yoocash/idbroker/internal/http/helpers"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController answers liveness/readiness probes.
type HealthController struct {
	deps map[string]Pinger
}

func NewHealthController(deps map[string]Pinger) *HealthController {
	return &HealthController{deps: deps}
}

// Health handles GET /healthz
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := make(map[string]string, len(c.deps))
	for name, p := range c.deps {
		if err := p.Ping(r.Context()); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks[name] = "ok"
		}
	}

	body := map[string]any{"status": "ok"}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if len(checks) > 0 {
		body["checks"] = checks
	}
	helpers.WriteJSON(w, status, body)
}
