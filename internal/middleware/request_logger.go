package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is where the requestid middleware stores the id in fiber locals.
const RequestIDKey = "requestid"

// RequestLogger logs every request once it completes, with status, duration and request id.
func RequestLogger(log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		entry := log.WithFields(logrus.Fields{
			"request_id": c.Locals(RequestIDKey),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"duration":   time.Since(start).Milliseconds(),
		})

		switch {
		case err != nil:
			entry.WithError(err).Error("Handler.Error")
		case status >= fiber.StatusInternalServerError:
			entry.Error("Handler.Complete")
		case status >= fiber.StatusBadRequest:
			entry.Warn("Handler.Complete")
		default:
			entry.Info("Handler.Complete")
		}
		return err
	}
}
