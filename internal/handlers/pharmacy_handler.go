package handlers

import (
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/services"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/session"
	"github.com/gofiber/fiber/v2"
)

type PharmacyHandler struct {
	pharmacy *services.PharmacyService
}

func NewPharmacyHandler(pharmacy *services.PharmacyService) *PharmacyHandler {
	return &PharmacyHandler{pharmacy: pharmacy}
}

func (h *PharmacyHandler) Medicines(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"medicines": h.pharmacy.Medicines()})
}

func (h *PharmacyHandler) AddToCart(c *fiber.Ctx) error {
	var req dto.AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	sess := middleware.GetSession(c)
	if _, err := h.pharmacy.Add(sess, req.Name, req.Quantity); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(cartResponse(sess))
}

func (h *PharmacyHandler) Cart(c *fiber.Ctx) error {
	return c.JSON(cartResponse(middleware.GetSession(c)))
}

func (h *PharmacyHandler) Checkout(c *fiber.Ctx) error {
	order := h.pharmacy.Checkout(middleware.GetSession(c))
	if len(order.Items) == 0 {
		return c.JSON(dto.CheckoutResponse{Message: "Cart is empty.", Order: order})
	}
	return c.JSON(dto.CheckoutResponse{Message: "Order placed (demo).", Order: order})
}

func cartResponse(sess *session.Session) dto.CartResponse {
	return dto.CartResponse{Items: sess.CartItems(), Total: sess.CartTotal()}
}
