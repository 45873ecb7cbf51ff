package session

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/prabscode/farmbasket-storefront/internal/api"
)

func TestEnsureIdentity_MintsAnonymousOnce(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	id, err := EnsureIdentity(ctx, store)
	if err != nil {
		t.Fatalf("ensure identity: %v", err)
	}
	if !strings.HasPrefix(id, "anon_") || len(id) != len("anon_")+8 {
		t.Fatalf("expected anon_ id with 8-char suffix, got %q", id)
	}

	again, err := EnsureIdentity(ctx, store)
	if err != nil {
		t.Fatalf("ensure identity: %v", err)
	}
	if again != id {
		t.Fatalf("identity must be stable across calls: %q vs %q", id, again)
	}
}

func TestEnsureIdentity_KeepsLoggedInUser(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	if err := store.Set(ctx, KeyUserID, "u1"); err != nil {
		t.Fatalf("seed identity: %v", err)
	}
	id, err := EnsureIdentity(ctx, store)
	if err != nil {
		t.Fatalf("ensure identity: %v", err)
	}
	if id != "u1" {
		t.Fatalf("expected stored identity kept, got %q", id)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("expected miss for unset key")
	}
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, _ := store.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("expected hit with v, got %q %v", v, ok)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("expected miss after delete")
	}
}

func makeSessionApp(store Store, upstream string) *fiber.App {
	app := fiber.New()
	NewHandler(store, api.NewClient(upstream, nil)).RegisterRoutes(app)
	return app
}

func TestSessionRoutes(t *testing.T) {
	users := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer users.Close()

	store := NewMemory()
	app := makeSessionApp(store, users.URL)

	// first contact mints an anonymous identity
	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/session", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"userId":"anon_`) {
		t.Fatalf("expected minted anonymous id, got %s", string(b))
	}

	// login replaces the anonymous identity
	req := httptest.NewRequest("POST", "/api/v1/session", strings.NewReader(`{"userId":"u1","name":"Asha","email":"a@b.c"}`))
	req.Header.Set("Content-Type", "application/json")
	res2, _ := app.Test(req)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for login, got %d", res2.StatusCode)
	}
	if id := Identity(context.Background(), store); id != "u1" {
		t.Fatalf("expected stored identity u1, got %q", id)
	}

	res3, _ := app.Test(httptest.NewRequest("GET", "/api/v1/session", nil))
	b3, _ := io.ReadAll(res3.Body)
	if !strings.Contains(string(b3), `"userName":"Asha"`) {
		t.Fatalf("expected stored profile fields, got %s", string(b3))
	}

	// userId is mandatory
	req4 := httptest.NewRequest("POST", "/api/v1/session", strings.NewReader(`{"name":"Asha"}`))
	req4.Header.Set("Content-Type", "application/json")
	res4, _ := app.Test(req4)
	if res4.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing userId, got %d", res4.StatusCode)
	}
}

func TestSessionLogin_UpstreamFailureKeepsIdentity(t *testing.T) {
	users := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer users.Close()

	store := NewMemory()
	if err := store.Set(context.Background(), KeyUserID, "anon_12345678"); err != nil {
		t.Fatalf("seed identity: %v", err)
	}
	app := makeSessionApp(store, users.URL)

	req := httptest.NewRequest("POST", "/api/v1/session", strings.NewReader(`{"userId":"u1"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadGateway {
		t.Fatalf("expected 502 for upstream failure, got %d", res.StatusCode)
	}
	if id := Identity(context.Background(), store); id != "anon_12345678" {
		t.Fatalf("identity must not change when the upsert fails, got %q", id)
	}
}
