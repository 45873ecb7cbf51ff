package cart

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the cart over HTTP. It keeps cart-specific routing
// isolated from browse and checkout.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart", h.addToCart)
	app.Delete("/api/v1/cart/:id", h.removeFromCart)
	app.Patch("/api/v1/cart/:index", h.updateQuantity)
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	ctx := c.UserContext()
	return c.JSON(fiber.Map{
		"items": h.service.Items(ctx),
		"total": h.service.Total(ctx),
	})
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	entry := new(Entry)
	if err := c.BodyParser(entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if entry.Key() == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "productId or bundleId is required"})
	}

	ctx := c.UserContext()
	if err := h.service.Add(ctx, *entry); err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "please log in to add items to cart"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(h.service.Items(ctx))
}

func (h *Handler) removeFromCart(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := h.service.Remove(ctx, c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(h.service.Items(ctx))
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid cart position"})
	}
	payload := new(quantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	ctx := c.UserContext()
	if err := h.service.UpdateQuantity(ctx, index, payload.Quantity); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(h.service.Items(ctx))
}
