package checkout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/prabscode/farmbasket-storefront/internal/api"
)

// Handler exposes the checkout flow over HTTP.
type Handler struct {
	sequencer *Sequencer
}

func NewHandler(sequencer *Sequencer) *Handler {
	return &Handler{sequencer: sequencer}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/v1/checkout", h.getState)
	app.Post("/api/v1/checkout/address", h.submitAddress)
	app.Post("/api/v1/checkout/back", h.back)
	app.Post("/api/v1/checkout/order", h.placeOrder)
}

func (h *Handler) getState(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"step":          h.sequencer.Step(),
		"orderId":       h.sequencer.OrderID(),
		"details":       h.sequencer.Details(),
		"shippingPrice": ShippingPrice,
		"grandTotal":    h.sequencer.GrandTotal(c.UserContext()),
	})
}

func (h *Handler) submitAddress(c *fiber.Ctx) error {
	details := new(Details)
	if err := c.BodyParser(details); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.sequencer.SubmitAddress(c.UserContext(), *details); err != nil {
		var ve *ValidationError
		switch {
		case errors.As(err, &ve):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ve.Fields})
		case errors.Is(err, ErrInvalidTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"step": h.sequencer.Step()})
}

func (h *Handler) back(c *fiber.Ctx) error {
	if err := h.sequencer.Back(); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"step": h.sequencer.Step()})
}

func (h *Handler) placeOrder(c *fiber.Ctx) error {
	conf, err := h.sequencer.PlaceOrder(c.UserContext())
	if err != nil {
		var statusErr *api.StatusError
		switch {
		case errors.Is(err, ErrUnauthenticated):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "please log in to complete your purchase"})
		case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrInvalidTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
		case errors.As(err, &statusErr):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(fiber.Map{
		"step":    h.sequencer.Step(),
		"orderId": conf.EffectiveID(),
	})
}
