package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pptxapi/internal/config"
	"pptxapi/internal/deck"
	handlers "pptxapi/internal/http/handler"
	"pptxapi/internal/http/middleware"
	"pptxapi/internal/otel"
	"pptxapi/internal/renderer"
	"pptxapi/internal/service"
	"pptxapi/internal/storage"
	"pptxapi/internal/sweeper"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry tracing (noop when no collector is configured)
	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Prefer S3-compatible object storage; fall back to the local
	// filesystem backend when MinIO is unreachable or unconfigured.
	store, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Printf("object storage unavailable, using filesystem backend: %v", err)
		store, err = storage.NewFilesystem(cfg.Files)
		if err != nil {
			log.Fatalf("failed to initialize filesystem storage: %v", err)
		}
	}

	// Initialize renderer and service
	r := renderer.New(cfg.Render)
	svc := service.NewPresentationService(r, deck.NewCanvas, store, cfg.Render.StrictValidation)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register prometheus metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, store, svc)

	// Background sweeper deletes presentations older than the retention window
	go sweeper.New(store, cfg.Retention).Run(ctx)

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
