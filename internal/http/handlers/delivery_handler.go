package handlers

import (
	"marto/internal/domain"
	applog "marto/internal/log"
	"marto/internal/services"
	"marto/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type DeliveryHandler struct {
	Delivery *services.DeliveryService
}

// POST /deliveries/:order_id/assign
func (h *DeliveryHandler) Assign(c *fiber.Ctx) error {
	claims, _ := CurrentClaims(c)
	orderID, ok := validate.ID(c.Params("order_id"))
	if !ok {
		return domain.NotFound("order not found")
	}
	d, err := h.Delivery.Assign(c.UserContext(), orderID, claims.ID)
	if err != nil {
		return err
	}
	applog.Audit(c, "delivery.assign", map[string]any{"delivery_id": d.ID, "order_id": d.OrderID})
	return c.JSON(d)
}

// POST /deliveries/:id/complete
func (h *DeliveryHandler) Complete(c *fiber.Ctx) error {
	claims, _ := CurrentClaims(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return domain.NotFound("delivery not found")
	}
	d, err := h.Delivery.Complete(c.UserContext(), id, claims.ID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			applog.Security(c, "access.denied.delivery", map[string]any{"delivery_id": id})
		}
		return err
	}
	applog.Audit(c, "delivery.complete", map[string]any{"delivery_id": d.ID, "order_id": d.OrderID})
	return c.JSON(d)
}

// GET /deliveries
func (h *DeliveryHandler) List(c *fiber.Ctx) error {
	claims, _ := CurrentClaims(c)
	ds, err := h.Delivery.ListDeliveries(c.UserContext(), claims.ID)
	if err != nil {
		return err
	}
	return c.JSON(ds)
}
