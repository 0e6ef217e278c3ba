package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"kaizen-ideas/internal/domain"
)

type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
	TraceID string              `json:"trace_id,omitempty"`
}

var sentinelStatus = []struct {
	err  error
	code int
}{
	{domain.ErrIdeaNotFound, fiber.StatusNotFound},
	{domain.ErrUserNotFound, fiber.StatusNotFound},
	{domain.ErrNotificationNotFound, fiber.StatusNotFound},
	{domain.ErrInvalidStatus, fiber.StatusBadRequest},
	{domain.ErrEmployeeNumberExists, fiber.StatusConflict},
	{domain.ErrCannotModifySelf, fiber.StatusForbidden},
	{domain.ErrUserInactive, fiber.StatusForbidden},
	{domain.ErrInvalidOTP, fiber.StatusUnauthorized},
	{domain.ErrOTPExpired, fiber.StatusUnauthorized},
	{domain.ErrTooManyAttempts, fiber.StatusTooManyRequests},
	{domain.ErrTooManyImages, fiber.StatusBadRequest},
	{domain.ErrUnsupportedMedia, fiber.StatusUnsupportedMediaType},
	{domain.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge},
}

func errorCode(status int) string {
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
	case fiber.StatusUnsupportedMediaType:
		return "UNSUPPORTED_MEDIA_TYPE"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	case fiber.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	case fiber.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}

// ErrorHandler turns domain errors into JSON responses. Unmapped errors are
// logged and reported as 500 without their message.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		traceID := uuid.New().String()[:8]
		resp := ErrorResponse{TraceID: traceID}
		status := fiber.StatusInternalServerError

		var fe *fiber.Error
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &fe):
			status = fe.Code
			resp.Message = fe.Message
		case errors.As(err, &ve):
			status = fiber.StatusUnprocessableEntity
			resp.Message = ve.Error()
			resp.Fields = ve.Fields
		default:
			for _, s := range sentinelStatus {
				if errors.Is(err, s.err) {
					status = s.code
					resp.Message = err.Error()
					break
				}
			}
		}

		if status == fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("trace_id", traceID),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
			resp.Message = "Internal server error"
		}
		resp.Code = errorCode(status)

		return c.Status(status).JSON(resp)
	}
}

func NewError(code int, message string) *fiber.Error {
	return fiber.NewError(code, message)
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

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}

func Conflict(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusConflict, message)
}
