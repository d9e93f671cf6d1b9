package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/features"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Disclaimer is the footer shown under every page.
const Disclaimer = "⚠ This AI provides general medical information only. It is NOT a substitute for professional medical advice."

type HealthHandler struct {
	db        *gorm.DB
	flags     features.Flags
	aiEnabled bool
}

func NewHealthHandler(db *gorm.DB, flags features.Flags, aiEnabled bool) *HealthHandler {
	return &HealthHandler{db: db, flags: flags, aiEnabled: aiEnabled}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(h.db); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Variant:   h.flags.Variant,
		AIEnabled: h.aiEnabled,
	})
}

func (h *HealthHandler) Disclaimer(c *fiber.Ctx) error {
	return c.JSON(dto.DisclaimerResponse{Disclaimer: Disclaimer})
}
