package handlers

import (
	"marto/internal/domain"
	"marto/internal/log"
	"marto/internal/services"
	"marto/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// POST /products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	claims, _ := CurrentClaims(c)
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return domain.Validation("invalid JSON body")
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), claims.ID, in)
	if err != nil {
		return err
	}
	c.Status(fiber.StatusCreated)
	log.Audit(c, "product.create", map[string]any{"product_id": p.ID, "price": p.Price.String()})
	return c.JSON(p)
}

// GET /products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.ListProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// GET /products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return domain.NotFound("product not found")
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

type priceInput struct {
	Price decimal.Decimal `json:"price"`
}

// PATCH /products/:id
func (h *ProductHandler) UpdatePrice(c *fiber.Ctx) error {
	claims, _ := CurrentClaims(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return domain.NotFound("product not found")
	}
	var in priceInput
	if err := c.BodyParser(&in); err != nil {
		return domain.Validation("invalid JSON body")
	}
	p, err := h.Catalog.UpdatePrice(c.UserContext(), claims.ID, id, in.Price)
	if err != nil {
		return err
	}
	log.Audit(c, "product.price.update", map[string]any{"product_id": p.ID, "price": p.Price.String()})
	return c.JSON(p)
}
