package handlers

import (
	"context"
	"net/http"
	"time"

	"assetscan/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	mongo utils.HealthCheck
	redis utils.HealthCheck
	clock utils.Clock
}

func NewHealthHandler(mongo, redis utils.HealthCheck, clock utils.Clock) *HealthHandler {
	if clock == nil {
		clock = utils.NewSystemClock()
	}
	return &HealthHandler{mongo: mongo, redis: redis, clock: clock}
}

// Health pings Mongo and Redis and answers 503 when either is down.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := utils.CheckHealth(ctx, h.mongo, h.redis, h.clock.Now())
	code := http.StatusOK
	state := "ok"
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "dependencies": status})
}
