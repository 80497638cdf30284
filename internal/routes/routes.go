package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/ismyjobsafe/jobsafe-backend/internal/config"
	"github.com/ismyjobsafe/jobsafe-backend/internal/handlers"
	"github.com/ismyjobsafe/jobsafe-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	analyzeHandler *handlers.AnalyzeHandler,
	premiumHandler *handlers.PremiumHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	reportsHandler *handlers.ReportsHandler,
	checkoutHandler *handlers.CheckoutHandler,
	webhookHandler *handlers.WebhookHandler,
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

	// Free analysis — anonymous by design
	api.Post("/analyze", analyzeHandler.Analyze)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
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

	// Protected routes (JWT required) - apply middleware per group so the
	// public routes above are unaffected
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	premium := api.Group("/premium", middleware.JWTProtected(cfg))
	premium.Post("/protection-plan", premiumHandler.ProtectionPlan)
	premium.Post("/salary-projection", premiumHandler.SalaryProjection)
	premium.Post("/market-comparison", premiumHandler.MarketComparison)
	premium.Post("/ai-simulation", premiumHandler.AISimulation)

	api.Get("/subscription/status", middleware.JWTProtected(cfg), subscriptionHandler.Status)

	reports := api.Group("/reports", middleware.JWTProtected(cfg))
	reports.Get("/", reportsHandler.List)
	reports.Get("/:analysisId", reportsHandler.Get)

	api.Post("/checkout", middleware.JWTProtected(cfg), checkoutHandler.Create)

	// Webhooks — provider signature auth, no JWT
	webhooks := api.Group("/webhooks")
	webhooks.Post("/:provider", webhookHandler.Handle)
}
