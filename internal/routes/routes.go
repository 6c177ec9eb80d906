package routes

import (
	"time"

	"github.com/betatools/tracker-backend/internal/config"
	"github.com/betatools/tracker-backend/internal/handlers"
	"github.com/betatools/tracker-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	reportHandler *handlers.ReportHandler,
	pointsHandler *handlers.PointsHandler,
	shopHandler *handlers.ShopHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth is public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected routes (JWT required) - apply middleware to individual routes
	// so public routes stay untouched
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Reports: browsing is open to any signed-in tester
	api.Post("/reports", middleware.JWTProtected(cfg), reportHandler.Submit)
	api.Get("/reports", middleware.JWTProtected(cfg), reportHandler.List)
	api.Get("/reports/:id", middleware.JWTProtected(cfg), reportHandler.Get)
	api.Get("/users/:id/stats", middleware.JWTProtected(cfg), reportHandler.UserStats)

	// Points and shop
	api.Get("/points/balance", middleware.JWTProtected(cfg), pointsHandler.Balance)
	api.Get("/shop", middleware.JWTProtected(cfg), shopHandler.Browse)
	api.Post("/shop/purchases", middleware.JWTProtected(cfg), shopHandler.Begin)
	api.Post("/shop/purchases/:id/confirm", middleware.JWTProtected(cfg), shopHandler.Confirm)
	api.Post("/shop/purchases/:id/cancel", middleware.JWTProtected(cfg), shopHandler.Cancel)

	// Review panel (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Post("/reports/:id/approve", reportHandler.Approve)
	admin.Post("/reports/:id/decline", reportHandler.Decline)
	admin.Post("/reports/:id/fix", reportHandler.Fix)
	admin.Get("/reports/stats", reportHandler.DailyStats)
	admin.Get("/testers", authHandler.ListTesters)
	admin.Post("/points/add", pointsHandler.Add)
	admin.Post("/points/remove", pointsHandler.Remove)
	admin.Post("/points/reset", pointsHandler.Reset)
}
