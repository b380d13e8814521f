package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDGenerated(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		rid, _ := c.Locals(RequestIDLocalKey).(string)
		return c.SendString(rid)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	header := resp.Header.Get(RequestIDHeader)
	require.NotEmpty(t, header)
	_, err = uuid.Parse(header)
	assert.NoError(t, err)
}

func TestRequestIDPropagated(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "incoming-id")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "incoming-id", resp.Header.Get(RequestIDHeader))
}

func TestPrometheusMiddlewareCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(pm.Handler())
	app.Get("/presentations/:id", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/presentations/abc", nil)
	_, err = app.Test(req)
	require.NoError(t, err)

	expected := strings.NewReader(`
# HELP http_requests_total Total number of HTTP requests processed.
# TYPE http_requests_total counter
http_requests_total{method="GET",path="/presentations/:id",status="200"} 1
`)
	assert.NoError(t, testutil.GatherAndCompare(reg, expected, "http_requests_total"))
}

func TestPrometheusMiddlewareSkipsMetricsPath(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(pm.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	_, err = app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 0, testutil.CollectAndCount(pm.requestCount))
}

func TestPrometheusMiddlewareDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMiddleware(reg)
	assert.Error(t, err)
}
