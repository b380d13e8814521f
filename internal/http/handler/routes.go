package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pptxapi/internal/model"
	"pptxapi/internal/service"
	"pptxapi/internal/storage"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin; all rendering and storage logic lives in the service.
func RegisterRoutes(app *fiber.App, store storage.ArtifactStore, svc service.PresentationService) {
	app.Get("/", Root())
	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())

	app.Post("/presentations", GeneratePresentation(svc))
	app.Get("/presentations/:id", DownloadPresentation(svc))

	// Serve the OpenAPI document and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})
}

// Root is a simple status banner.
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "message": "PPTX API is running"})
	}
}

// HealthCheck verifies the storage backend is reachable.
func HealthCheck(store storage.ArtifactStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// GeneratePresentation renders a JSON deck into a stored PPTX and returns
// its handle.
func GeneratePresentation(svc service.PresentationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var deck model.Deck
		if err := c.BodyParser(&deck); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body is not a valid deck document")
		}

		pres, err := svc.Generate(c.UserContext(), &deck)
		if err != nil {
			if errors.Is(err, service.ErrInvalidDeck) || errors.Is(err, service.ErrDeckRequired) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_DECK", err.Error())
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(pres)
	}
}

// DownloadPresentation streams a stored PPTX by identifier. Absent and
// expired artifacts both yield 404; backend faults never leak.
func DownloadPresentation(svc service.PresentationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		data, meta, err := svc.Fetch(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "presentation not found or expired")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		c.Set(fiber.HeaderContentType, storage.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", meta.Filename))
		return c.Send(data)
	}
}
