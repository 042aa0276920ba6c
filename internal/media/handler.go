package media

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(s *Service, logger *zap.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

// RegisterPublicRoutes serves stored files.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Static(URLPrefix, h.service.dir)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/upload", h.upload)
}

func (h *Handler) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("files")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "files is required"})
	}
	if file.Size > MaxUploadSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"message": ErrTooLarge.Error()})
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	ref, err := h.service.Upload(c.UserContext(), file.Filename, data)
	switch {
	case errors.Is(err, ErrUnsupported), errors.Is(err, ErrEmptyFile):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrTooLarge):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"message": err.Error()})
	case err != nil:
		h.logger.Error("upload failed", zap.String("name", file.Filename), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "upload failed"})
	}
	// the media library answers with a list, one entry per file
	return c.Status(fiber.StatusCreated).JSON([]any{ref})
}
