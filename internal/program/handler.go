package program

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

type Handler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandler(repo Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/programs", h.list)
}

func (h *Handler) list(c *fiber.Ctx) error {
	limit := defaultLimit
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = min(v, maxLimit)
		}
	}

	items, err := h.repo.List(c.UserContext(), c.Query("institution"), limit)
	if err != nil {
		h.logger.Error("list programs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}
	return c.JSON(fiber.Map{"data": items})
}
