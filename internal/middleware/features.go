package middleware

import (
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/features"
	"github.com/gofiber/fiber/v2"
)

// FeatureRequired hides routes the running variant does not offer.
func FeatureRequired(flags features.Flags, name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !flags.Enabled(name) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Feature not available in " + flags.Variant,
			})
		}
		return c.Next()
	}
}

// SecurityHeaders sets the response hardening headers on every reply.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	}
}
