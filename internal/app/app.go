// Package app wires the storefront: configuration, session store, backend
// client, services and the Fiber HTTP surface.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"toko-storefront/internal/backend"
	"toko-storefront/internal/config"
	"toko-storefront/internal/handlers"
	"toko-storefront/internal/middleware"
	"toko-storefront/internal/models"
	"toko-storefront/internal/repositories"
	"toko-storefront/internal/services"
	"toko-storefront/pkg/rabbitmq"
)

// App is a fully wired storefront.
type App struct {
	Fiber    *fiber.App
	Sessions *services.SessionService
	Events   *rabbitmq.Client // nil when RABBITMQ_URL is empty

	closers []func() error
}

// New builds the storefront from cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	repo, err := a.sessionRepository(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	client, err := backend.New(backend.Config{BaseURL: cfg.BackendBaseURL, Timeout: cfg.BackendTimeout})
	if err != nil {
		a.Close()
		return nil, err
	}

	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		a.Events = mqClient
		a.closers = append(a.closers, mqClient.Close)
		events = mqClient
	}

	// The cart listens to the session store so logout and expiry drop its state.
	cartService := services.NewCartService(client, events)
	a.Sessions = services.NewSessionService(repo, client, cfg.SessionTTL, cartService)
	catalogService := services.NewCatalogService(client)
	orderService := services.NewOrderService(client, events)
	profileService := services.NewProfileService(client, a.Sessions)

	authHandler := handlers.NewAuthHandler(a.Sessions, cfg.SessionCookie)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	profileHandler := handlers.NewProfileHandler(profileService)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":        "healthy",
			"time":          time.Now().Format(time.RFC3339),
			"session_store": cfg.SessionStore,
			"events":        a.Events != nil,
		})
	})

	api := app.Group("/api")
	authHandler.RegisterRoutes(api)
	catalogHandler.RegisterRoutes(api, middleware.SessionOptional(a.Sessions, cfg.SessionCookie))

	protected := api.Group("", middleware.SessionRequired(a.Sessions, cfg.SessionCookie))
	authHandler.RegisterSessionRoutes(protected)
	cartHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)
	profileHandler.RegisterRoutes(protected)

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	a.Fiber = app
	return a, nil
}

func (a *App) sessionRepository(ctx context.Context, cfg *config.Config) (repositories.SessionRepository, error) {
	switch cfg.SessionStore {
	case config.StoreRedis:
		repo, err := repositories.NewRedisSessionRepository(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, repo.Close)
		return repo, nil

	case config.StorePostgres, config.StoreSQLite:
		dialector := postgres.Open(cfg.DatabaseDSN)
		if cfg.SessionStore == config.StoreSQLite {
			dialector = sqlite.Open(cfg.DatabaseDSN)
		}
		db, err := gorm.Open(dialector, &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", cfg.SessionStore, err)
		}
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
		return repositories.NewGORMSessionRepository(db)
	}

	log.Println("Using in-memory session store; sessions are lost on restart.")
	return repositories.NewMockSessionRepository(), nil
}

// Close releases the broker connection and the session store.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}
	a.closers = nil
}

// LogEvent is the consumer for the storefront activity queue: it decodes an
// event and writes it to the log.
func LogEvent(msg amqp.Delivery) error {
	var evt models.StorefrontEvent
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}
	log.Printf("Storefront event %s (%s): session=%s order=%d contract=%d status=%q",
		evt.Type, evt.ID, evt.SessionID, evt.OrderID, evt.ContractID, evt.Status)
	return nil
}
