package addon

import (
	"fmt"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// corsMiddleware allows any origin. Stremio's client runs on a different
// origin and doesn't show catalog/stream responses without these headers.
func corsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		c.Set(fiber.HeaderAccessControlAllowHeaders, "*")
		c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, PUT, DELETE, OPTIONS")
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}

// createLoggingMiddleware logs one line per handled request.
func createLoggingMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		logger.Info("Handled request",
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", duration))
		return err
	}
}

// createMetricsMiddleware counts requests by method and status.
func createMetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		err := c.Next()
		counter := fmt.Sprintf(`http_requests_total{method=%q, status="%d"}`,
			c.Method(), c.Response().StatusCode())
		metrics.GetOrCreateCounter(counter).Inc()
		return err
	}
}

// createHealthHandler answers liveness probes.
func createHealthHandler(logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		logger.Debug("Handling health check")
		return c.SendString("OK")
	}
}
