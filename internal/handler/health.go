package handler

import (
	"context"
	"time"

	"gemini-multitool/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const healthPingTimeout = 2 * time.Second

// Pinger is a dependency the health check can reach, such as domain.Cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and the reachability of the shared session cache.
type HealthHandler struct {
	cache Pinger
}

// NewHealthHandler creates a new HealthHandler. cache is nil when sessions are
// kept in process memory.
func NewHealthHandler(cache Pinger) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Health godoc
// @Summary Liveness probe
// @Description Reports ok, or 503 when the shared session cache cannot be reached
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	if h.cache == nil {
		return c.JSON(fiber.Map{"status": "ok"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), healthPingTimeout)
	defer cancel()
	if err := h.cache.Ping(ctx); err != nil {
		logger.Get().Warn("Session cache ping failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"cache":  "unreachable",
		})
	}
	return c.JSON(fiber.Map{"status": "ok", "cache": "ok"})
}
