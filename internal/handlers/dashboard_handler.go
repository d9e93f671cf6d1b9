package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/charts"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/features"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
	flags     features.Flags
}

func NewDashboardHandler(dashboard *services.DashboardService, flags features.Flags) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, flags: flags}
}

func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	username := middleware.GetSession(c).Username
	resp, err := h.dashboard.Summary(c.UserContext(), username, h.flags)
	if err != nil {
		slog.Error("dashboard summary failed", "username", username, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load dashboard",
		})
	}
	return c.JSON(resp)
}

func (h *DashboardHandler) AppointmentsChart(c *fiber.Ctx) error {
	html, err := h.dashboard.AppointmentsChart(c.UserContext(), middleware.GetSession(c).Username)
	return h.sendChart(c, html, err, "No appointment history to chart.")
}

func (h *DashboardHandler) ReportTypesChart(c *fiber.Ctx) error {
	html, err := h.dashboard.ReportTypesChart(c.UserContext(), middleware.GetSession(c).Username)
	return h.sendChart(c, html, err, "No reports uploaded yet to show distribution.")
}

func (h *DashboardHandler) sendChart(c *fiber.Ctx, html string, err error, empty string) error {
	if err != nil {
		if errors.Is(err, charts.ErrNoData) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: empty,
			})
		}
		slog.Error("chart rendering failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to render chart",
		})
	}
	return c.Type("html").SendString(html)
}

func (h *DashboardHandler) Tip(c *fiber.Ctx) error {
	answer := h.dashboard.DailyTip(c.UserContext())
	return c.JSON(dto.TipResponse{Tip: answer.Text, OK: answer.OK})
}
