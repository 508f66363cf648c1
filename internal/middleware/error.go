package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus-volunteer/internal/domain"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
	Field   string `json:"field,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorHandler maps domain errors to status codes. Anything it does not
// recognise is logged with a trace id and reported as a 500.
func NewErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			validationErr *domain.ValidationError
			stateErr      *domain.InvalidStateError
			notFoundErr   *domain.NotFoundError
			authzErr      *domain.AuthorizationError
			fiberErr      *fiber.Error
		)

		switch {
		case errors.As(err, &validationErr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: validationErr.Message,
				Field:   validationErr.Field,
			})
		case errors.As(err, &stateErr):
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
				Code:    "INVALID_STATE",
				Message: stateErr.Message,
				Kind:    string(stateErr.Kind),
			})
		case errors.As(err, &notFoundErr):
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Code:    "NOT_FOUND",
				Message: notFoundErr.Error(),
			})
		case errors.As(err, &authzErr):
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Code:    "FORBIDDEN",
				Message: authzErr.Message,
			})
		case errors.As(err, &fiberErr):
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    fiberErrorCode(fiberErr.Code),
				Message: fiberErr.Message,
			})
		}

		traceID := uuid.New().String()[:8]
		logger.Error("unhandled request error",
			zap.String("trace_id", traceID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Internal server error",
			TraceID: traceID,
		})
	}
}

func fiberErrorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	}
	return "ERROR"
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, message)
}

func Conflict(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusConflict, message)
}

func ServiceUnavailable(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusServiceUnavailable, message)
}
