package session

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/prabscode/farmbasket-storefront/internal/api"
)

// Handler exposes the profile's identity: reading it (minting an anonymous
// one on first contact) and recording a login.
type Handler struct {
	store  Store
	client *api.Client
}

func NewHandler(store Store, client *api.Client) *Handler {
	return &Handler{store: store, client: client}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/v1/session", h.getSession)
	app.Post("/api/v1/session", h.login)
}

func (h *Handler) getSession(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := EnsureIdentity(ctx, h.store)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	name, _, _ := h.store.Get(ctx, KeyUserName)
	email, _, _ := h.store.Get(ctx, KeyUserEmail)
	return c.JSON(fiber.Map{
		"userId":    id,
		"userName":  name,
		"userEmail": email,
	})
}

type loginRequest struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// login upserts the profile upstream first; local identity only changes
// once the user API has accepted the record.
func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "userId is required"})
	}

	ctx := c.UserContext()
	err := h.client.UpsertUser(ctx, api.UserRecord{
		UserID:  payload.UserID,
		Name:    payload.Name,
		Email:   payload.Email,
		Picture: payload.Picture,
	})
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "could not reach user service: " + err.Error()})
	}

	if err := h.store.Set(ctx, KeyUserID, payload.UserID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Name != "" {
		_ = h.store.Set(ctx, KeyUserName, payload.Name)
	}
	if payload.Email != "" {
		_ = h.store.Set(ctx, KeyUserEmail, payload.Email)
	}
	return c.JSON(fiber.Map{"userId": payload.UserID})
}
