package browse

import (
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/prabscode/farmbasket-storefront/internal/api"
)

const feedBody = `[
	{"_id":"f1","name":"Ravi","location":"Nashik","works":[
		{"_id":"w1","cropName":"Tomato","category":"Vegetables","price":10,"rating":4},
		{"_id":"w2","cropName":"Tomato","category":"Vegetables","price":12,"rating":5}
	]},
	{"id":"p1","name":"Mango","category":"Fruits","location":"Ratnagiri","price":40,"rating":3}
]`

func makeBrowseApp(upstream string) *fiber.App {
	app := fiber.New()
	client := api.NewClient(upstream, nil)
	NewHandler(client, rand.New(rand.NewSource(1))).RegisterRoutes(app)
	return app
}

func feedServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestGetProducts(t *testing.T) {
	srv := feedServer(t, feedBody, http.StatusOK)
	defer srv.Close()
	app := makeBrowseApp(srv.URL)

	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/products", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	body := string(b)
	for _, want := range []string{`"id":"w1"`, `"id":"w2"`, `"id":"p1"`, `"farmerName":"Ravi"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in flattened grid, got %s", want, body)
		}
	}
}

func TestGetProducts_QueryNarrowsAndSorts(t *testing.T) {
	srv := feedServer(t, feedBody, http.StatusOK)
	defer srv.Close()
	app := makeBrowseApp(srv.URL)

	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/products?category=Vegetables&sort=price_high_low", nil))
	b, _ := io.ReadAll(res.Body)
	body := string(b)
	if strings.Contains(body, `"id":"p1"`) {
		t.Fatalf("expected fruit filtered out, got %s", body)
	}
	if strings.Index(body, `"id":"w2"`) > strings.Index(body, `"id":"w1"`) {
		t.Fatalf("expected descending price order, got %s", body)
	}

	res2, _ := app.Test(httptest.NewRequest("GET", "/api/v1/products?search=mango", nil))
	b2, _ := io.ReadAll(res2.Body)
	if strings.Contains(string(b2), `"id":"w1"`) || !strings.Contains(string(b2), `"id":"p1"`) {
		t.Fatalf("expected search to keep only the mango, got %s", string(b2))
	}

	res3, _ := app.Test(httptest.NewRequest("GET", "/api/v1/products?rating=4&rating=5", nil))
	b3, _ := io.ReadAll(res3.Body)
	if strings.Contains(string(b3), `"id":"p1"`) {
		t.Fatalf("expected rating filter to drop the 3-star entry, got %s", string(b3))
	}
}

func TestGetBundles(t *testing.T) {
	srv := feedServer(t, feedBody, http.StatusOK)
	defer srv.Close()
	app := makeBrowseApp(srv.URL)

	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/bundles", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	body := string(b)
	if !strings.Contains(body, `"name":"Tomato Bundle"`) {
		t.Fatalf("expected a same-product bundle, got %s", body)
	}
	if !strings.Contains(body, `"reason":"Same Farmer"`) {
		t.Fatalf("expected a same-farmer bundle, got %s", body)
	}
}

func TestBrowse_UpstreamFailure(t *testing.T) {
	srv := feedServer(t, "oops", http.StatusInternalServerError)
	defer srv.Close()
	app := makeBrowseApp(srv.URL)

	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/products", nil))
	if res.StatusCode != fiber.StatusBadGateway {
		t.Fatalf("expected 502 for upstream failure, got %d", res.StatusCode)
	}
}

func TestBrowse_MalformedFeed(t *testing.T) {
	srv := feedServer(t, `{"not":"an array"}`, http.StatusOK)
	defer srv.Close()
	app := makeBrowseApp(srv.URL)

	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/bundles", nil))
	if res.StatusCode != fiber.StatusBadGateway {
		t.Fatalf("expected 502 for malformed feed, got %d", res.StatusCode)
	}
}
