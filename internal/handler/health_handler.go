package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/sku_console/internal/utils"
)

var startTime = time.Now()

// Pinger is a dependency whose reachability is reported by /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	backend string
	store   Pinger
}

// NewHealthHandler creates a new HealthHandler. store may be nil when the
// credential backend has nothing to ping.
func NewHealthHandler(backend string, store Pinger) *HealthHandler {
	return &HealthHandler{backend: backend, store: store}
}

// GetHealth responds with service and credential store status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	storeStatus := "connected"
	if h.store != nil {
		if err := h.store.Ping(c.Request.Context()); err != nil {
			storeStatus = "disconnected"
		}
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":  "healthy",
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"credentialStore": gin.H{
			"backend": h.backend,
			"status":  storeStatus,
		},
	})
}
