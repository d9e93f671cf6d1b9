package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/features"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/logging"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/routes"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/services"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/session"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.LogLevel)

	if cfg.SessionSecret == "" {
		slog.Error("SESSION_SECRET environment variable is required")
		os.Exit(1)
	}

	// Variant feature toggles
	registry := features.Defaults()
	if cfg.FeaturesPath != "" {
		loaded, err := features.LoadFromFile(cfg.FeaturesPath)
		if err != nil {
			slog.Error("failed to load variants", "path", cfg.FeaturesPath, "error", err)
			os.Exit(1)
		}
		registry = loaded
	}
	flags, err := registry.Resolve(cfg.AppVariant)
	if err != nil {
		slog.Error("invalid app variant", "error", err)
		os.Exit(1)
	}
	slog.Info("app variant selected", "variant", flags.Variant)

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

	// DB log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(db, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, dbLogHandler)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cleanupDone)

	// Session store
	var store session.Store
	sweepDone := make(chan struct{})
	switch cfg.SessionStore {
	case "redis":
		client, err := session.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			slog.Error("redis connection failed", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer client.Close()
		store = session.NewRedisStore(client, cfg.SessionTTL, cfg.SessionLockWait)
	default:
		mem := session.NewMemoryStore(cfg.SessionTTL)
		mem.StartSweeper(10*time.Minute, sweepDone)
		store = mem
	}
	tokens := middleware.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL)

	// Services
	gateway := services.NewAIGateway(cfg)
	if !gateway.Configured() {
		slog.Warn("AI API key missing, answers will carry a diagnostic")
	}
	speech := services.NewSpeechClient(cfg)
	vault, err := services.NewFileVault(cfg.UploadDir)
	if err != nil {
		slog.Error("upload directory unavailable", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}
	records := services.NewRecordStore(db)
	credentialService := services.NewCredentialService(db)
	consultationService := services.NewConsultationService(gateway, speech, speech, cfg.VideoBaseURL)
	reportService := services.NewReportService(records, vault)
	appointmentService := services.NewAppointmentService(records)
	prescriptionService := services.NewPrescriptionService(records, gateway)
	pharmacyService := services.NewPharmacyService()
	dashboardService := services.NewDashboardService(records, gateway)

	// Handlers
	authHandler := handlers.NewAuthHandler(credentialService)
	healthHandler := handlers.NewHealthHandler(db, flags, gateway.Configured())
	consultHandler := handlers.NewConsultationHandler(consultationService)
	reportHandler := handlers.NewReportHandler(reportService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	prescriptionHandler := handlers.NewPrescriptionHandler(prescriptionService, flags)
	pharmacyHandler := handlers.NewPharmacyHandler(pharmacyService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, flags)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		AppName:      flags.Title,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
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
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, flags, store, tokens,
		authHandler, healthHandler, consultHandler, reportHandler,
		appointmentHandler, prescriptionHandler, pharmacyHandler, dashboardHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "variant", flags.Variant)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	close(sweepDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
