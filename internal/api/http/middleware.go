package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/observability"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(requestLoggerMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				var fiberErr *fiber.Error
				if e, ok := err.(*fiber.Error); ok {
					fiberErr = e
				}

				var status int
				var code, message string
				var details map[string]any
				if fiberErr != nil {
					status = fiberErr.Code
					code = "REQUEST_FAILED"
					message = fiberErr.Message
				} else {
					domainErr := apperrors.ToDomainError(err)
					status = domainErr.HTTPStatus
					code = domainErr.Code
					message = domainErr.Message
					details = domainErr.Details
					if status >= 500 {
						logger.Error("request failed", zap.Error(domainErr))
					}
				}

				metrics.RecordError(c.Path(), c.Method(), code)
				response := fiber.Map{"error": fiber.Map{
					"code":    code,
					"message": message,
				}}
				if len(details) > 0 {
					response["error"].(fiber.Map)["details"] = details
				}
				c.Status(status)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

func requestLoggerMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		metrics.RecordRequest(c.Path(), c.Method(), c.Response().StatusCode(), duration)
		logger.Debug("request handled",
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", duration))
		return err
	}
}
