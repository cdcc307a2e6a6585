package handlers

import (
	"marto/internal/auth"
	"marto/internal/config"
	"marto/internal/repos"
	"marto/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthService *services.AuthService

	AuthHandler     *AuthHandler
	ProductHandler  *ProductHandler
	OrderHandler    *OrderHandler
	DeliveryHandler *DeliveryHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	store := repos.NewStore(db)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	authSvc := services.NewAuthService(store.Users, tokens, cfg.BcryptCost)
	catalogSvc := services.NewCatalogService(store.Products)
	orderSvc := services.NewOrderService(store)
	deliverySvc := services.NewDeliveryService(store)

	return &Deps{
		AuthService:     authSvc,
		AuthHandler:     &AuthHandler{Auth: authSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		OrderHandler:    &OrderHandler{Order: orderSvc},
		DeliveryHandler: &DeliveryHandler{Delivery: deliverySvc},
	}
}
