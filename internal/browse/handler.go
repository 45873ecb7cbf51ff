// Package browse serves the product grid and the generated bundle grid:
// fetch → flatten (→ generate) → filter/sort, per request.
package browse

import (
	"errors"
	"math/rand"

	"github.com/gofiber/fiber/v2"
	"github.com/prabscode/farmbasket-storefront/internal/api"
	"github.com/prabscode/farmbasket-storefront/internal/bundle"
	"github.com/prabscode/farmbasket-storefront/internal/catalog"
	"github.com/prabscode/farmbasket-storefront/internal/pipeline"
)

type Handler struct {
	client    *api.Client
	flattener *catalog.Flattener
	generator *bundle.Generator
}

// NewHandler shares one rng between flattening and bundle generation; nil
// keeps the time-seeded production default.
func NewHandler(client *api.Client, rng *rand.Rand) *Handler {
	return &Handler{
		client:    client,
		flattener: catalog.NewFlattener(rng),
		generator: bundle.NewGenerator(rng),
	}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.getProducts)
	app.Get("/api/v1/bundles", h.getBundles)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	entries, err := h.loadCatalog(c)
	if err != nil {
		return feedError(c, err)
	}
	return c.JSON(pipeline.Apply(entries, queryFromCtx(c)))
}

func (h *Handler) getBundles(c *fiber.Ctx) error {
	entries, err := h.loadCatalog(c)
	if err != nil {
		return feedError(c, err)
	}
	bundles := h.generator.Generate(entries)
	return c.JSON(pipeline.Apply(bundles, queryFromCtx(c)))
}

func (h *Handler) loadCatalog(c *fiber.Ctx) ([]catalog.Entry, error) {
	raw, err := h.client.FetchProducts(c.UserContext())
	if err != nil {
		return nil, err
	}
	docs, err := catalog.DecodeFeed(raw)
	if err != nil {
		return nil, err
	}
	return h.flattener.Flatten(docs), nil
}

// feedError surfaces upstream and decode failures instead of answering
// with an empty grid.
func feedError(c *fiber.Ctx, err error) error {
	if errors.Is(err, catalog.ErrMalformedFeed) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "could not fetch products: " + err.Error()})
}
