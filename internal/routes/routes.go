package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/features"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	flags features.Flags,
	store session.Store,
	tokens *middleware.SessionTokens,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	consultHandler *handlers.ConsultationHandler,
	reportHandler *handlers.ReportHandler,
	appointmentHandler *handlers.AppointmentHandler,
	prescriptionHandler *handlers.PrescriptionHandler,
	pharmacyHandler *handlers.PharmacyHandler,
	dashboardHandler *handlers.DashboardHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health and footer (no session)
	api.Get("/health", healthHandler.Check)
	api.Get("/disclaimer", healthHandler.Disclaimer)

	// Everything below carries a browser session, anonymous or not.
	web := api.Group("", middleware.Sessions(store, tokens, cfg.CookieSecure, cfg.SessionLockWait))

	// Auth: stricter 10 req/min per IP
	auth := web.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", authHandler.Me)

	// Pages: signed token plus a logged-in session, applied per group so the
	// JWT check never reaches the public routes above.
	protect := []fiber.Handler{middleware.JWTProtected(cfg), middleware.RequireLogin()}

	consult := web.Group("/consult", protect...)
	consult.Get("/options", consultHandler.Options)
	consult.Post("/ask", consultHandler.Ask)
	consult.Post("/voice", consultHandler.Voice)
	consult.Post("/speak", consultHandler.Speak)
	consult.Get("/history", consultHandler.History)
	consult.Delete("/history", consultHandler.ClearHistory)
	consult.Get("/video", consultHandler.Video)

	images := web.Group("/images", protect...)
	images.Post("/analyze", consultHandler.AnalyzeImage)

	reports := web.Group("/reports", protect...)
	reports.Post("/", reportHandler.Upload)
	reports.Get("/", reportHandler.List)
	reports.Get("/:id/download", reportHandler.Download)

	appointments := web.Group("/appointments", protect...)
	appointments.Get("/options", appointmentHandler.Options)
	appointments.Post("/", appointmentHandler.Book)
	appointments.Get("/", appointmentHandler.List)

	history := middleware.FeatureRequired(flags, features.PrescriptionHistory)
	prescriptions := web.Group("/prescriptions", protect...)
	prescriptions.Post("/", prescriptionHandler.Generate)
	prescriptions.Get("/", history, prescriptionHandler.List)
	prescriptions.Get("/:id/download", history, prescriptionHandler.Download)
	prescriptions.Delete("/:id", history, prescriptionHandler.Delete)

	pharmacy := web.Group("/pharmacy", protect...)
	pharmacy.Get("/medicines", pharmacyHandler.Medicines)
	pharmacy.Get("/cart", pharmacyHandler.Cart)
	pharmacy.Post("/cart", pharmacyHandler.AddToCart)
	pharmacy.Post("/checkout", middleware.FeatureRequired(flags, features.CartCheckout), pharmacyHandler.Checkout)

	dashboard := web.Group("/dashboard", protect...)
	dashboard.Get("/", dashboardHandler.Summary)
	dashboard.Get("/charts/appointments", dashboardHandler.AppointmentsChart)
	dashboard.Get("/charts/report-types", dashboardHandler.ReportTypesChart)
	dashboard.Get("/tip", dashboardHandler.Tip)
}
