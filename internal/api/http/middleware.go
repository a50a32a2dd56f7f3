package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pegasus-hq/support-core/internal/observability"
	apperrors "github.com/pegasus-hq/support-core/pkg/util"
)

// errorBody is the envelope every failed request returns.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewErrorHandler builds the fiber error handler. Domain errors keep their
// code, status and details; fiber errors keep their status; everything else
// becomes a logged 500 without leaking internals.
func NewErrorHandler(logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			if metrics != nil {
				metrics.RecordError(c.Path(), c.Method(), http.StatusText(fiberErr.Code))
			}
			return c.Status(fiberErr.Code).JSON(errorBody{Error: errorDetail{
				Code:    http.StatusText(fiberErr.Code),
				Message: fiberErr.Message,
			}})
		}

		domainErr := apperrors.ToDomainError(err)
		if domainErr.HTTPStatus >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		if metrics != nil {
			metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
		}
		return c.Status(domainErr.HTTPStatus).JSON(errorBody{Error: errorDetail{
			Code:    domainErr.Code,
			Message: domainErr.Message,
			Details: domainErr.Details,
		}})
	}
}

// RequestTimeout bounds every handler with a deadline so a slow store call
// cannot pin the connection forever.
func RequestTimeout(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if timeout <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// Recover converts handler panics into internal errors instead of dropping
// the connection.
func Recover(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Path()))
				err = apperrors.NewInternalError(fiber.ErrInternalServerError)
			}
		}()
		return c.Next()
	}
}
