package programsection

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sona-group/institution-cms/internal/content"
	"github.com/sona-group/institution-cms/internal/query"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(s *Service, logger *zap.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/program-sections", h.list)
	app.Get("/api/program-sections/:id<int>", h.get)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/program-sections", h.create)
}

func descriptor(c *fiber.Ctx) (query.Descriptor, error) {
	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		values.Add(string(k), string(v))
	})
	return query.ParseValues(values)
}

func (h *Handler) list(c *fiber.Ctx) error {
	d, err := descriptor(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	sections, err := h.service.Find(c.UserContext(), d)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": sections, "meta": fiber.Map{"total": len(sections)}})
}

func (h *Handler) get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	d, err := descriptor(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	section, err := h.service.FindOne(c.UserContext(), id, d.Populate)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": section})
}

func (h *Handler) create(c *fiber.Ctx) error {
	var req struct {
		Data Input `json:"data"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	section, err := h.service.Create(c.UserContext(), req.Data)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": section})
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	var fieldErrs content.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fieldErrs})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Program section not found"})
	case errors.Is(err, ErrUnknownRelation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	h.logger.Error("program section request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
}
