package handlers

import (
	"context"
	"time"

	"marto/internal/config"
	"marto/internal/domain"
	applog "marto/internal/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const appName = "Marto API"

// NewApp builds the fiber app with middlewares and every route mounted.
func NewApp(cfg config.Config, deps *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: ErrorHandler(cfg.ExposeErrorDetails),
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,OPTIONS",
	}))
	if cfg.RequestTimeout > 0 {
		app.Use(requestTimeout(cfg.RequestTimeout))
	}

	Routes(app, cfg, deps)
	return app
}

// Routes mounts the API on app.
func Routes(app *fiber.App, cfg config.Config, deps *Deps) {
	authLimiter := limiter.New(limiter.Config{
		Max:        cfg.LoginRateLimit,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.auth.hit", nil)
			return fiber.NewError(fiber.StatusTooManyRequests, "too many attempts, please try again later")
		},
	})
	requireAuth := RequireAuth(deps.AuthService)

	// Health
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "name": appName})
	})

	// Auth
	app.Post("/auth/register", authLimiter, deps.AuthHandler.Register)
	app.Post("/auth/login", authLimiter, deps.AuthHandler.Login)
	app.Get("/me", requireAuth, deps.AuthHandler.Me)

	// Catalog
	app.Get("/products", deps.ProductHandler.List)
	app.Get("/products/:id", deps.ProductHandler.Detail)
	app.Post("/products", requireAuth, RequireCapability(domain.CapSell), deps.ProductHandler.Create)
	app.Patch("/products/:id", requireAuth, RequireCapability(domain.CapSell), deps.ProductHandler.UpdatePrice)

	// Orders
	orders := app.Group("/orders", requireAuth)
	orders.Post("/", RequireCapability(domain.CapOrder), deps.OrderHandler.Place)
	orders.Get("/", deps.OrderHandler.List)
	orders.Get("/:id", deps.OrderHandler.View)

	// Deliveries
	deliveries := app.Group("/deliveries", requireAuth, RequireCapability(domain.CapDeliver))
	deliveries.Get("/", deps.DeliveryHandler.List)
	deliveries.Post("/:order_id/assign", deps.DeliveryHandler.Assign)
	deliveries.Post("/:id/complete", deps.DeliveryHandler.Complete)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "route not found")
	})
}

// requestTimeout bounds the database work of a single request.
func requestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
