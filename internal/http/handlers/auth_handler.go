package handlers

import (
	"strings"

	"marto/internal/domain"
	"marto/internal/log"
	"marto/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return domain.Validation("invalid JSON body")
	}
	token, u, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		if domain.KindOf(err) == domain.KindConflict {
			log.Security(c, "auth.register.fail", map[string]any{"email": strings.ToLower(in.Email), "reason": "duplicate"})
		}
		return err
	}
	c.Locals(log.UserIDKey, u.ID)
	log.Audit(c, "auth.register", map[string]any{"email": u.Email, "role": string(u.Role)})
	return c.JSON(fiber.Map{"token": token, "user": u})
}

// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginInput
	if err := c.BodyParser(&in); err != nil {
		return domain.Validation("invalid JSON body")
	}
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return domain.Validation("email and password are required")
	}

	token, claims, err := h.Auth.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		switch domain.KindOf(err) {
		case domain.KindNotFound, domain.KindAuth:
			log.Security(c, "auth.login.fail", map[string]any{"email": in.Email, "reason": domain.PublicMessage(err)})
			return fiber.NewError(fiber.StatusBadRequest, "invalid email or password")
		}
		return err
	}

	c.Locals(log.UserIDKey, claims.ID)
	log.Audit(c, "auth.login.success", map[string]any{"email": claims.Email})
	return c.JSON(fiber.Map{"token": token, "user": claims})
}

// GET /me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := CurrentClaims(c)
	if !ok {
		return domain.Auth("authentication required")
	}
	return c.JSON(fiber.Map{"user": claims})
}
