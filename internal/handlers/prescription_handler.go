package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/features"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PrescriptionHandler struct {
	prescriptions *services.PrescriptionService
	flags         features.Flags
}

func NewPrescriptionHandler(prescriptions *services.PrescriptionService, flags features.Flags) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptions: prescriptions, flags: flags}
}

// Generate returns a suggestion; it is saved only when the variant keeps a
// prescription history.
func (h *PrescriptionHandler) Generate(c *fiber.Ctx) error {
	var req dto.GeneratePrescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	username := middleware.GetSession(c).Username
	save := h.flags.Enabled(features.PrescriptionHistory)
	answer, saved, err := h.prescriptions.Generate(c.UserContext(), username, req.Symptoms, save)
	if err != nil {
		if errors.Is(err, services.ErrSymptomsRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Please describe symptoms before generating suggestions.",
			})
		}
		slog.Error("prescription save failed", "username", username, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save prescription",
		})
	}

	return c.JSON(dto.PrescriptionResponse{
		Suggestion:   answer.Text,
		OK:           answer.OK,
		Saved:        saved != nil,
		Prescription: saved,
	})
}

func (h *PrescriptionHandler) List(c *fiber.Ctx) error {
	username := middleware.GetSession(c).Username
	list, err := h.prescriptions.List(c.UserContext(), username)
	if err != nil {
		slog.Error("prescription list failed", "username", username, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load prescriptions",
		})
	}
	return c.JSON(dto.PrescriptionListResponse{Prescriptions: list})
}

func (h *PrescriptionHandler) Download(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid prescription id",
		})
	}

	username := middleware.GetSession(c).Username
	p, err := h.prescriptions.Get(c.UserContext(), username, id)
	if err != nil {
		if errors.Is(err, services.ErrPrescriptionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Prescription not found",
			})
		}
		slog.Error("prescription load failed", "username", username, "prescription_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load prescription",
		})
	}

	c.Attachment(fmt.Sprintf("prescription_%d.txt", p.ID))
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Send(services.RenderText(p))
}

func (h *PrescriptionHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid prescription id",
		})
	}

	username := middleware.GetSession(c).Username
	if err := h.prescriptions.Delete(c.UserContext(), username, id); err != nil {
		slog.Error("prescription delete failed", "username", username, "prescription_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete prescription",
		})
	}
	return c.JSON(dto.MessageResponse{Message: "Prescription deleted"})
}

func pathID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
