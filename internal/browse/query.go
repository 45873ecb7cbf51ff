package browse

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/prabscode/farmbasket-storefront/internal/pipeline"
)

// queryFromCtx maps the browse query string onto one pipeline pass.
// Unparseable numeric parameters keep their defaults rather than erroring.
func queryFromCtx(c *fiber.Ctx) pipeline.Query {
	q := pipeline.Query{
		Search:         c.Query("search"),
		Sort:           c.Query("sort"),
		ActiveCategory: c.Query("category"),
		Filters:        pipeline.DefaultFilters(),
	}
	q.Filters.Location = c.Query("location")

	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		q.Filters.PriceRange[0] = v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		q.Filters.PriceRange[1] = v
	}

	for _, raw := range multi(c, "rating") {
		if r, err := strconv.Atoi(raw); err == nil {
			q.Filters.CustomerRating = append(q.Filters.CustomerRating, r)
		}
	}
	q.Filters.DeliveryTime = multi(c, "delivery")
	q.Filters.PaymentOptions = multi(c, "payment")
	return q
}

func multi(c *fiber.Ctx, key string) []string {
	var out []string
	for _, v := range c.Context().QueryArgs().PeekMulti(key) {
		if len(v) > 0 {
			out = append(out, string(v))
		}
	}
	return out
}
