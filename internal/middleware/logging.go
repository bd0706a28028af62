package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var skipLoggingPaths = []string{
	"/assets/",
	"/favicon.ico",
}

// RequestLogger logs one line per request with method, path, status and latency.
// Errors returned by the chain are rendered through the app's ErrorHandler
// first so the logged status is the one the client receives.
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, prefix := range skipLoggingPaths {
			if strings.HasPrefix(c.Path(), prefix) {
				return c.Next()
			}
		}

		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		}
		if id := UserID(c); id != 0 {
			fields = append(fields, zap.Uint("user_id", id))
		}
		if chainErr != nil && status >= fiber.StatusInternalServerError {
			fields = append(fields, zap.Error(chainErr))
		}

		level := zapcore.InfoLevel
		switch {
		case status >= fiber.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= fiber.StatusBadRequest:
			level = zapcore.WarnLevel
		}
		log.Check(level, "request").Write(fields...)
		return nil
	}
}
