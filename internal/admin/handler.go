package admin

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/admin/login", h.login)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/admin/me", h.me)
}

// Middleware rejects requests without a valid admin token. Routes
// registered before it on the app stay public.
func (h *Handler) Middleware() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: h.service.secret,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
		},
	})
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	a, err := h.service.Authenticate(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		h.logger.Info("admin login failed", zap.String("email", payload.Email))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or password"})
	}

	token, err := h.service.IssueToken(a)
	if err != nil {
		h.logger.Error("sign admin token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}
	return c.JSON(fiber.Map{"jwt": token, "user": a})
}

func (h *Handler) me(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": claims["admin_id"], "email": claims["email"]}})
}
