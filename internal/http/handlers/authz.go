package handlers

import (
	"marto/internal/auth"
	"marto/internal/domain"
	applog "marto/internal/log"
	"marto/internal/services"

	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

// RequireAuth validates the bearer token and attaches its claims to the
// request.
func RequireAuth(authSvc *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			applog.Security(c, "auth.token.invalid", map[string]any{"reason": domain.PublicMessage(err)})
			return err
		}
		claims, err := authSvc.Authenticate(raw)
		if err != nil {
			applog.Security(c, "auth.token.invalid", map[string]any{"reason": domain.PublicMessage(err)})
			return err
		}
		c.Locals(claimsKey, claims)
		c.Locals(applog.UserIDKey, claims.ID)
		return c.Next()
	}
}

// RequireCapability rejects callers whose role lacks the capability with 403.
// It must run after RequireAuth.
func RequireCapability(want domain.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := CurrentClaims(c)
		if !ok {
			return domain.Auth("authentication required")
		}
		if !claims.Role.Can(want) {
			applog.Security(c, "access.denied.role", map[string]any{"role": string(claims.Role), "capability": want.String()})
			return domain.Forbidden("role %s is not allowed to %s", claims.Role, want)
		}
		return c.Next()
	}
}

// CurrentClaims returns the claims stored by RequireAuth.
func CurrentClaims(c *fiber.Ctx) (domain.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(domain.Claims)
	return claims, ok
}
