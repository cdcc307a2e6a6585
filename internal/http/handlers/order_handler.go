package handlers

import (
	"marto/internal/domain"
	applog "marto/internal/log"
	"marto/internal/services"
	"marto/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Order *services.OrderService
}

// POST /orders
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	claims, _ := CurrentClaims(c)
	var in services.OrderInput
	if err := c.BodyParser(&in); err != nil {
		return domain.Validation("invalid JSON body")
	}

	o, err := h.Order.CreateOrder(c.UserContext(), claims.ID, in)
	if err != nil {
		if domain.KindOf(err) != domain.KindUnexpected {
			applog.Info(c, "order.create.fail", map[string]any{"reason": domain.PublicMessage(err)})
		}
		return err
	}
	c.Status(fiber.StatusCreated)
	applog.Audit(c, "order.create", map[string]any{
		"order_id":    o.ID,
		"merchant_id": o.MerchantID,
		"items":       len(in.Items),
		"total":       o.Total.String(),
	})
	return c.JSON(o)
}

// GET /orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	claims, _ := CurrentClaims(c)
	orders, err := h.Order.ListOrders(c.UserContext(), claims)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// GET /orders/:id
func (h *OrderHandler) View(c *fiber.Ctx) error {
	claims, _ := CurrentClaims(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return domain.NotFound("order not found")
	}
	detail, err := h.Order.GetOrder(c.UserContext(), claims, id)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			applog.Security(c, "access.denied.order", map[string]any{"order_id": id})
		}
		return err
	}
	return c.JSON(detail)
}
