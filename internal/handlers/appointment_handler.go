package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AppointmentHandler struct {
	appointments *services.AppointmentService
}

func NewAppointmentHandler(appointments *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

func (h *AppointmentHandler) Options(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"genders":            services.Genders,
		"departments":        services.Departments,
		"consultation_types": services.ConsultationTypes,
		"doctors":            []string{services.DefaultDoctor},
	})
}

func (h *AppointmentHandler) Book(c *fiber.Ctx) error {
	var req dto.BookAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	username := middleware.GetSession(c).Username
	appt, err := h.appointments.Book(c.UserContext(), username, req)
	if err != nil {
		if isValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("appointment booking failed", "username", username, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to book appointment",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(appt)
}

func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	username := middleware.GetSession(c).Username
	appts, err := h.appointments.Recent(c.UserContext(), username)
	if err != nil {
		slog.Error("appointment list failed", "username", username, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load appointments",
		})
	}
	return c.JSON(dto.AppointmentListResponse{Appointments: appts})
}

func isValidationError(err error) bool {
	for _, target := range []error{
		services.ErrInvalidAge,
		services.ErrInvalidGender,
		services.ErrInvalidDepartment,
		services.ErrInvalidConsultationType,
		services.ErrAppointmentDateRequired,
		services.ErrInvalidAppointmentTime,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
