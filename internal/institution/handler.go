package institution

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sona-group/institution-cms/internal/banner"
	"github.com/sona-group/institution-cms/internal/query"
)

type Handler struct {
	service *Service
	baseURL string
	logger  *zap.Logger
}

// NewHandler builds the institution HTTP handler. baseURL is used to make
// media URLs absolute.
func NewHandler(s *Service, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{service: s, baseURL: baseURL, logger: logger}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/institutions", h.list)
	app.Get("/api/institutions/:slug", h.getBySlug)
}

// RegisterProtectedRoutes registers the write endpoints. Banner fields are
// validated and sanitized before the handlers see the body.
func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	validateBanner := banner.Middleware(h.logger)
	app.Post("/api/institutions", validateBanner, h.create)
	app.Put("/api/institutions/:id<int>", validateBanner, h.update)
}

type writeRequest struct {
	Data Input `json:"data"`
}

// parseWrite only accepts JSON bodies, the only kind banner.Middleware
// inspects. The returned status goes with a non-nil error.
func parseWrite(c *fiber.Ctx) (*writeRequest, int, error) {
	if !c.Is("json") {
		return nil, fiber.StatusUnsupportedMediaType, errors.New("request body must be JSON")
	}
	req := new(writeRequest)
	if err := c.BodyParser(req); err != nil {
		return nil, fiber.StatusBadRequest, err
	}
	return req, 0, nil
}

func (h *Handler) list(c *fiber.Ctx) error {
	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		values.Add(string(k), string(v))
	})
	d, err := query.ParseValues(values)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	records, err := h.service.List(c.UserContext(), d)
	if err != nil {
		return h.writeError(c, err)
	}

	onlyWithBanner := c.QueryBool("hasBanner", false)
	data := make([]fiber.Map, 0, len(records))
	for _, rec := range records {
		if onlyWithBanner && !banner.HasBannerData(rec) {
			continue
		}
		data = append(data, h.present(rec))
	}
	return c.JSON(fiber.Map{"data": data, "meta": fiber.Map{"total": len(data)}})
}

func (h *Handler) getBySlug(c *fiber.Ctx) error {
	rec, err := h.service.FindBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": h.present(rec)})
}

func (h *Handler) create(c *fiber.Ctx) error {
	req, status, err := parseWrite(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"message": err.Error()})
	}

	rec, err := h.service.Create(c.UserContext(), req.Data)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": h.present(rec)})
}

func (h *Handler) update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	req, status, err := parseWrite(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"message": err.Error()})
	}

	rec, err := h.service.Update(c.UserContext(), id, req.Data)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": h.present(rec)})
}

// present turns a formatted record into the response body, making the
// banner image URL absolute and adding its aspect ratio.
func (h *Handler) present(rec banner.Record) fiber.Map {
	out := make(fiber.Map, len(rec))
	for k, v := range rec {
		out[k] = v
	}

	img, ok := rec[banner.FieldImage].(map[string]any)
	if !ok || img == nil {
		return out
	}
	meta := banner.ExtractMetadata(img)
	width, height := 0, 0
	if meta.Width != nil {
		width = *meta.Width
	}
	if meta.Height != nil {
		height = *meta.Height
	}

	presented := make(map[string]any, len(img)+1)
	for k, v := range img {
		presented[k] = v
	}
	presented["url"] = banner.BuildImageURL(meta.URL, h.baseURL)
	presented["aspectRatio"] = banner.AspectRatio(width, height)
	out[banner.FieldImage] = presented
	return out
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	var (
		fieldErrs FieldErrors
		schemaErr *banner.SchemaError
	)
	switch {
	case errors.As(err, &fieldErrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fieldErrs})
	case errors.Is(err, banner.ErrNotFound), errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Institution not found"})
	case errors.Is(err, ErrSlugTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrUnknownImage):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.As(err, &schemaErr):
		h.logger.Error("stored institution violates response schema", zap.String("field", schemaErr.Field), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	h.logger.Error("institution request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
}
