package middleware

import (
	"fmt"
	"time"

	"gemini-multitool/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger is a middleware that logs HTTP requests
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		// Process request
		err := nextRecovered(c)
		if err != nil {
			// Let the error handler write the response so the status below is final.
			if handleErr := c.App().ErrorHandler(c, err); handleErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return nil
	}
}

// nextRecovered runs the rest of the chain and turns a panic into an error,
// so a request that panics still gets a response and a log line.
func nextRecovered(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get().Error("Recovered from panic",
				zap.String("path", c.Path()),
				zap.Any("panic", r),
				zap.Stack("stack"))
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return c.Next()
}
