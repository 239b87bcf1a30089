package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toko-storefront/internal/app"
	"toko-storefront/internal/config"
	"toko-storefront/pkg/telemetry"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// --- Tracing for backend calls ---
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: "toko-storefront",
		Exporter:    cfg.TracingExporter,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	// --- Wire the storefront ---
	storefront, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storefront: %v", err)
	}
	defer storefront.Close()

	// --- Activity event consumer ---
	if storefront.Events != nil {
		log.Println("Starting RabbitMQ consumer for storefront events...")
		if err := storefront.Events.ConsumeEvents(app.LogEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	// --- Start HTTP Server ---
	log.Printf("Starting storefront on port %s, backend %s", cfg.AppPort, cfg.BackendBaseURL)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := storefront.Fiber.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := storefront.Fiber.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Printf("Error flushing traces: %v", err)
	}

	log.Println("Server gracefully stopped")
}
