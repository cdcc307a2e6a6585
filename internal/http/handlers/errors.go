package handlers

import (
	"errors"

	"marto/internal/domain"
	applog "marto/internal/log"

	"github.com/gofiber/fiber/v2"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler turns handler errors into `{error, details?}` JSON responses.
// Unclassified errors are logged and answered with a generic 500; their text
// is only echoed back when exposeDetails is set.
func ErrorHandler(exposeDetails bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			if fe.Code >= fiber.StatusInternalServerError {
				applog.Error(c, "server.error", err, nil)
			}
			return c.Status(fe.Code).JSON(errorBody{Error: fe.Message})
		}

		var status int
		switch domain.KindOf(err) {
		case domain.KindValidation:
			status = fiber.StatusBadRequest
		case domain.KindAuth:
			status = fiber.StatusUnauthorized
		case domain.KindForbidden:
			status = fiber.StatusForbidden
		case domain.KindNotFound:
			status = fiber.StatusNotFound
		case domain.KindConflict:
			status = fiber.StatusConflict
		default:
			c.Status(fiber.StatusInternalServerError)
			applog.Error(c, "server.error", err, nil)
			body := errorBody{Error: "internal server error"}
			if exposeDetails {
				body.Details = err.Error()
			}
			return c.JSON(body)
		}
		return c.Status(status).JSON(errorBody{Error: domain.PublicMessage(err)})
	}
}
