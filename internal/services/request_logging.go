package services

import (
	"time"

	"miimaker/utils"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

const reqIDKey = "reqId"

// RequestLogger tags every request with an id and logs it once it finishes,
// keyed by route pattern and, for session routes, the session id.
func RequestLogger() fiber.Handler {
	base := log.With("component", "http")

	return func(c *fiber.Ctx) error {
		reqID := utils.NewRequestID()
		c.Locals(reqIDKey, reqID)
		c.Set("X-Request-Id", reqID)

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		route := c.Route().Path
		fields := []any{
			"reqId", reqID,
			"method", c.Method(),
			"route", route,
			"status", status,
			"dur", time.Since(start).String(),
		}
		if id := c.Params("id"); id != "" {
			fields = append(fields, "session", id)
		}

		switch {
		case err != nil:
			base.Error("request failed", append(fields, "err", err)...)
		case status >= fiber.StatusInternalServerError:
			base.Error("request completed", fields...)
		case status >= fiber.StatusBadRequest:
			base.Warn("request completed", fields...)
		case c.Method() == fiber.MethodGet:
			// Snapshot polling, previews and page assets.
			base.Debug("request completed", fields...)
		default:
			base.Info("request completed", fields...)
		}
		return err
	}
}

func ReqID(c *fiber.Ctx) string {
	if s, ok := c.Locals(reqIDKey).(string); ok {
		return s
	}
	return ""
}

// HttpLogger is the per-handler logger, carrying the request id and the
// session the route addresses.
func HttpLogger(action string, c *fiber.Ctx) *log.Logger {
	logger := log.With(
		"component", "api",
		"action", action,
		"reqId", ReqID(c),
	)
	if id := c.Params("id"); id != "" {
		logger = logger.With("session", id)
	}
	return logger
}
