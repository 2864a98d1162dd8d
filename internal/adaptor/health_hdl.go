package adaptor

import (
	"context"
	"net/http"
	"time"

	"cleaning-hub/pkg/utils"

	"go.uber.org/zap"
)

// HealthCheck probes one dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	checks []HealthCheck
	log    *zap.Logger
}

func NewHealthHandler(checks []HealthCheck, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		log:    log.With(zap.String("handler", "health")),
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	healthy := true
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			h.log.Warn("Health check failed", zap.String("check", c.Name), zap.Error(err))
			status[c.Name] = "down"
			healthy = false
			continue
		}
		status[c.Name] = "up"
	}

	if !healthy {
		utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "Service unavailable", status, nil)
		return
	}
	utils.ResponseSuccess(w, "OK", status)
}
