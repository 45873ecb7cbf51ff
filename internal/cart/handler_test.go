package cart

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/prabscode/farmbasket-storefront/internal/session"
)

func makeAppWithCartHandler(store session.Store) *fiber.App {
	app := fiber.New()
	NewHandler(NewService(store)).RegisterRoutes(app)
	return app
}

func TestCartRoutes_Basic(t *testing.T) {
	store := session.NewMemory()
	app := makeAppWithCartHandler(store)

	// ensure routes registered
	routes := map[string]bool{}
	for _, grp := range app.Stack() {
		for _, r := range grp {
			routes[r.Path] = true
		}
	}
	if !routes["/api/v1/cart"] {
		t.Fatalf("expected route '/api/v1/cart' to be registered")
	}
	if !routes["/api/v1/cart/:id"] {
		t.Fatalf("expected route '/api/v1/cart/:id' to be registered")
	}

	// adds without a stored identity are rejected
	req := httptest.NewRequest("POST", "/api/v1/cart", strings.NewReader(`{"productId":"p1","name":"Tomato","price":10}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for identity-less add, got %d", res.StatusCode)
	}

	// reading the cart never needs an identity
	req2 := httptest.NewRequest("GET", "/api/v1/cart", nil)
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for GET, got %d", res2.StatusCode)
	}
	b2, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(b2), `"total":0`) {
		t.Fatalf("expected zero total for empty cart, got %s", string(b2))
	}

	// store an identity the way the session endpoint would
	if err := store.Set(context.Background(), session.KeyUserID, "u1"); err != nil {
		t.Fatalf("seed identity: %v", err)
	}

	req3 := httptest.NewRequest("POST", "/api/v1/cart", strings.NewReader(`{"productId":"p1","name":"Tomato","price":10}`))
	req3.Header.Set("Content-Type", "application/json")
	res3, _ := app.Test(req3)
	if res3.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for add, got %d", res3.StatusCode)
	}
	b3, _ := io.ReadAll(res3.Body)
	if !strings.Contains(string(b3), `"quantity":1`) {
		t.Fatalf("expected default quantity 1, got %s", string(b3))
	}

	// body without an id is a bad request
	req4 := httptest.NewRequest("POST", "/api/v1/cart", strings.NewReader(`{"name":"Tomato"}`))
	req4.Header.Set("Content-Type", "application/json")
	res4, _ := app.Test(req4)
	if res4.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for id-less add, got %d", res4.StatusCode)
	}

	// set quantity at position 0
	req5 := httptest.NewRequest("PATCH", "/api/v1/cart/0", strings.NewReader(`{"quantity":4}`))
	req5.Header.Set("Content-Type", "application/json")
	res5, _ := app.Test(req5)
	if res5.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for quantity update, got %d", res5.StatusCode)
	}
	b5, _ := io.ReadAll(res5.Body)
	if !strings.Contains(string(b5), `"quantity":4`) {
		t.Fatalf("expected quantity 4, got %s", string(b5))
	}

	// non-numeric position is a bad request
	req6 := httptest.NewRequest("PATCH", "/api/v1/cart/first", strings.NewReader(`{"quantity":2}`))
	req6.Header.Set("Content-Type", "application/json")
	res6, _ := app.Test(req6)
	if res6.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for bad position, got %d", res6.StatusCode)
	}

	// remove the entry and confirm the cart is empty again
	req7 := httptest.NewRequest("DELETE", "/api/v1/cart/p1", nil)
	res7, _ := app.Test(req7)
	if res7.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for remove, got %d", res7.StatusCode)
	}
	b7, _ := io.ReadAll(res7.Body)
	if strings.Contains(string(b7), `"productId":"p1"`) {
		t.Fatalf("expected p1 removed, got %s", string(b7))
	}
}
