package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/ismyjobsafe/jobsafe-backend/internal/config"
	"github.com/ismyjobsafe/jobsafe-backend/internal/database"
	"github.com/ismyjobsafe/jobsafe-backend/internal/handlers"
	"github.com/ismyjobsafe/jobsafe-backend/internal/llm"
	"github.com/ismyjobsafe/jobsafe-backend/internal/logging"
	"github.com/ismyjobsafe/jobsafe-backend/internal/middleware"
	"github.com/ismyjobsafe/jobsafe-backend/internal/payments"
	"github.com/ismyjobsafe/jobsafe-backend/internal/routes"
	"github.com/ismyjobsafe/jobsafe-backend/internal/services"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if cfg.LemonSqueezyWebhookSecret == "" && cfg.PaddleWebhookSecret == "" {
		slog.Error("at least one webhook secret is required (LEMON_SQUEEZY_WEBHOOK_SECRET or PADDLE_WEBHOOK_SECRET)")
		os.Exit(1)
	}
	if cfg.PremiumBypassEnabled() {
		slog.Warn("DEV_PREMIUM_BYPASS is enabled; premium access gate is off")
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cleanupDone)

	// Payment providers
	registry := payments.NewRegistry(
		payments.NewLemonSqueezy(cfg.LemonSqueezyWebhookSecret),
		payments.NewPaddle(cfg.PaddleWebhookSecret),
	)

	// Services
	llmClient := llm.NewHTTPClient(cfg)
	authService := services.NewAuthService(db, cfg)
	analysisService := services.NewAnalysisService(db, llmClient)
	subscriptionService := services.NewSubscriptionService(db)
	premiumService := services.NewPremiumService(db, llmClient, subscriptionService)
	checkoutService := services.NewCheckoutService(cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(db)
	analyzeHandler := handlers.NewAnalyzeHandler(analysisService)
	premiumHandler := handlers.NewPremiumHandler(premiumService, cfg)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, cfg)
	reportsHandler := handlers.NewReportsHandler(subscriptionService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, authService, analysisService)
	webhookHandler := handlers.NewWebhookHandler(registry, subscriptionService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg,
		authHandler, healthHandler, analyzeHandler, premiumHandler,
		subscriptionHandler, reportsHandler, checkoutHandler, webhookHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
