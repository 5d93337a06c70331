package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ConnectionCounter reports how many realtime clients are connected.
type ConnectionCounter interface {
	Count() int
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	conns     ConnectionCounter
	providers []string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(conns ConnectionCounter, providers []string) *HealthHandler {
	return &HealthHandler{conns: conns, providers: providers}
}

// Liveness handles GET /healthz
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
// @Summary Readiness probe
// @Description Reports the configured providers and the number of live realtime connections
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if len(h.providers) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "no generation provider configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"connections": h.conns.Count(),
		"providers":   h.providers,
	})
}
