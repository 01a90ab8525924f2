package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/sokastore/sokastore-backend/api/responses"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves liveness and readiness probes.
type HealthController struct {
	db    Pinger
	cache Pinger
}

// NewHealthController wires the probes to their dependencies.
func NewHealthController(db, cache Pinger) *HealthController {
	return &HealthController{db: db, cache: cache}
}

// Live reports process liveness.
func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.OK(w, "", map[string]string{"status": "ok"})
}

// Ready reports readiness by pinging the database and cache. A cache
// outage degrades but does not fail readiness because auth rate
// limiting fails open.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"database": "ok", "cache": "ok"}
	status := http.StatusOK

	if c.db != nil {
		if err := c.db.Ping(ctx); err != nil {
			checks["database"] = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	if c.cache != nil {
		if err := c.cache.Ping(ctx); err != nil {
			checks["cache"] = "degraded"
		}
	}

	responses.JSON(w, status, responses.Envelope{
		Success: status == http.StatusOK,
		Data:    checks,
	})
}
