package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/go-hclog"
)

// Logger logs one JSON line per request through the given logger with the
// fields request_id, method, path, status and latency (milliseconds).
func Logger(log hclog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The global error handler has not written the response yet.
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		args := []any{
			"request_id", RequestIDFromCtx(c),
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", float64(time.Since(start).Microseconds()) / 1000,
		}
		if status >= fiber.StatusInternalServerError {
			log.Error("request", args...)
		} else {
			log.Info("request", args...)
		}

		return err
	}
}

// LoggerWithWriter builds a JSON access logger writing to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(hclog.New(&hclog.LoggerOptions{
		Name:       "http",
		Level:      hclog.Info,
		Output:     w,
		JSONFormat: true,
		TimeFn:     func() time.Time { return time.Now().In(loc) },
	}))
}
