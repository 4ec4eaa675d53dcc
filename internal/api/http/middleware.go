package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/observability"
	apperrors "github.com/civic-kit/complaint-service/pkg/util"
)

// RegisterMiddlewares attaches the global chain: an optional request
// deadline, the error envelope, and request logging. Every error that
// escapes a handler leaves the service as {"error":{code,message}}.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
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
				logger.Error("panic recovered",
					zap.String("path", c.Path()),
					zap.String("method", c.Method()),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				// fiber signals unmatched routes and bad methods with
				// its own error type; keep their status instead of
				// collapsing them into a 500.
				var fiberErr *fiber.Error
				if errors.As(err, &fiberErr) {
					domainErr = routeErrorToDomain(fiberErr)
				}
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				}
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed",
						zap.String("path", c.Path()),
						zap.String("method", c.Method()),
						zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

func routeErrorToDomain(e *fiber.Error) *apperrors.DomainError {
	code := "BAD_REQUEST"
	switch {
	case e.Code == fiber.StatusNotFound:
		code = "NOT_FOUND"
	case e.Code == fiber.StatusMethodNotAllowed:
		code = "METHOD_NOT_ALLOWED"
	case e.Code >= 500:
		code = "INTERNAL_ERROR"
	}
	return apperrors.NewDomainError(code, e.Message, e.Code, nil)
}
