package api

import (
	"errors"
	"strings"

	"crm-analytics/internal/common/apperror"
	"crm-analytics/internal/common/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data"`
	Code    apperror.Kind     `json:"code,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func OK(c *fiber.Ctx, message string, data any) error {
	return c.JSON(Response{Success: true, Message: message, Data: data})
}

func Created(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Response{Success: true, Message: message, Data: data})
}

// UserID returns the caller id set by the user middleware.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(string(models.UserIDKey)).(string); ok && strings.TrimSpace(id) != "" {
		return id
	}
	return models.DefaultUserID
}

// BadRequest builds the error for an unparsable request body.
func BadRequest(err error) error {
	return apperror.Wrap(apperror.KindValidation, "Invalid request body", err)
}

// ErrorHandler renders every error returned by a handler as an envelope with
// a status derived from its kind.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		resp := Response{Success: false, Message: err.Error(), Code: apperror.KindInternal}
		status := fiber.StatusInternalServerError

		var appErr *apperror.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			resp.Code = appErr.Kind
			resp.Message = appErr.Message
			resp.Errors = appErr.Fields
			status = appErr.Kind.Status()
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			resp.Message = fiberErr.Message
			resp.Code = kindForStatus(status)
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.String("code", string(resp.Code)),
			zap.String("userId", UserID(c)),
			zap.String("requestId", models.RequestIDFrom(c.UserContext())),
			zap.Error(err),
		}
		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed", fields...)
		} else {
			logger.Warn("request rejected", fields...)
		}

		return c.Status(status).JSON(resp)
	}
}

func kindForStatus(status int) apperror.Kind {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return apperror.KindValidation
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return apperror.KindNotFound
	case fiber.StatusForbidden, fiber.StatusUnauthorized:
		return apperror.KindForbidden
	case fiber.StatusBadGateway, fiber.StatusServiceUnavailable, fiber.StatusGatewayTimeout:
		return apperror.KindUpstream
	}
	return apperror.KindInternal
}
