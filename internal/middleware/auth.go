package middleware

import (
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected rejects requests without a validly signed session token.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{Key: []byte(cfg.SessionSecret)},
		TokenLookup: "header:Authorization,cookie:" + SessionCookie,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired session",
			})
		},
	})
}

// RequireLogin rejects sessions that have not logged in.
func RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetSession(c).Authenticated {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Please log in first",
			})
		}
		return c.Next()
	}
}
