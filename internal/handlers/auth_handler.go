package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	credentials *services.CredentialService
}

func NewAuthHandler(credentials *services.CredentialService) *AuthHandler {
	return &AuthHandler{credentials: credentials}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.Username == "" || req.Password == "" || req.ConfirmPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Please fill all fields.",
		})
	}
	if req.Password != req.ConfirmPassword {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Passwords do not match.",
		})
	}

	if err := h.credentials.Register(c.UserContext(), req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "Username already exists.",
			})
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Please fill all fields.",
			})
		}
		slog.Error("signup failed", "username", req.Username, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{
		Message: "Account created! You can now login.",
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Please fill both fields.",
		})
	}

	user, err := h.credentials.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid username or password.",
			})
		}
		slog.Error("login failed", "username", req.Username, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	sess := middleware.GetSession(c)
	sess.Login(user.Username)
	return c.JSON(dto.SessionResponse{
		Authenticated: true,
		Username:      user.Username,
		Message:       "Welcome, " + user.Username + "!",
	})
}

// Logout drops the login together with chat history and cart.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	middleware.GetSession(c).Logout()
	return c.JSON(dto.SessionResponse{Authenticated: false, Message: "Logged out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	sess := middleware.GetSession(c)
	return c.JSON(dto.SessionResponse{
		Authenticated: sess.Authenticated,
		Username:      sess.Username,
	})
}
