// Package health reports whether the service and its database are usable.
package health

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db      Pinger
	logger  *zap.Logger
	timeout time.Duration
}

func NewHandler(db Pinger, logger *zap.Logger) *Handler {
	return &Handler{db: db, logger: logger, timeout: 2 * time.Second}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/health", h.check)
}

func (h *Handler) check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "database": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
