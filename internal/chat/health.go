package chat

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/modkit/internal/httpserver"
	"github.com/kbukum/modkit/observability"
	"github.com/kbukum/modkit/version"
)

// Readiness reports the health of the running application.
type Readiness interface {
	ReadyCheck(ctx context.Context) (*observability.Report, error)
}

// HealthController serves the liveness and readiness probes.
type HealthController struct {
	service   string
	readiness Readiness
}

// NewHealthController registers /health and /ready on srv.
func NewHealthController(srv *httpserver.Server, service string, readiness Readiness) *HealthController {
	h := &HealthController{service: service, readiness: readiness}
	srv.Engine().GET("/health", h.Live)
	srv.Engine().GET("/ready", h.Ready)
	return h
}

// Live reports that the process is serving requests, and which build serves them.
func (h *HealthController) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  observability.HealthStatusUp,
		"service": h.service,
		"version": version.Current().Short(),
	})
}

// Ready aggregates component health. Any component that is down makes the
// probe fail with 503.
func (h *HealthController) Ready(c *gin.Context) {
	report, err := h.readiness.ReadyCheck(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, report)
		return
	}
	c.JSON(http.StatusOK, report)
}
