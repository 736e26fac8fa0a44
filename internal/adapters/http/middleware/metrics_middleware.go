package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"digithai/pkg/metrics"
)

// NewMetricsMiddleware создает промежуточное ПО, обновляющее метрики
// Prometheus по каждому запросу. Используется шаблон маршрута, а не
// фактический путь, чтобы не раздувать кардинальность меток.
func NewMetricsMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		start := time.Now()

		err := ctx.Next()

		path := ctx.Route().Path
		method := ctx.Method()
		status := strconv.Itoa(ctx.Response().StatusCode())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return err
	}
}
