package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/prabscode/farmbasket-storefront/internal/api"
	"github.com/prabscode/farmbasket-storefront/internal/browse"
	"github.com/prabscode/farmbasket-storefront/internal/cart"
	"github.com/prabscode/farmbasket-storefront/internal/checkout"
	"github.com/prabscode/farmbasket-storefront/internal/config"
	"github.com/prabscode/farmbasket-storefront/internal/session"
)

// main wires dependencies and starts the storefront.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	store := mustOpenStore(cfg)
	client := api.NewClient(cfg.APIBaseURL, nil)

	app := fiber.New()
	setupCORS(app)

	browse.NewHandler(client, nil).RegisterRoutes(app)
	session.NewHandler(store, client).RegisterRoutes(app)

	cartService := cart.NewService(store)
	cart.NewHandler(cartService).RegisterRoutes(app)

	sequencer := checkout.NewSequencer(cartService, client, store)
	checkout.NewHandler(sequencer).RegisterRoutes(app)

	log.Printf("starting storefront on %s (api: %s)", cfg.Addr, cfg.APIBaseURL)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func mustOpenStore(cfg config.Config) session.Store {
	if cfg.RedisAddr == "" {
		return session.NewMemory()
	}
	store, err := session.NewRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatalf("redis session store: %v", err)
	}
	return store
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
}
