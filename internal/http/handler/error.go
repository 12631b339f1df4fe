package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"schoolapi/internal/model"
	"schoolapi/internal/repository"
)

const (
	msgNotFound      = "Resource not found"
	msgUnexpected    = "Unexpected error"
	msgInvalidID     = "Invalid id"
	msgInvalidBody   = "Invalid request body"
	msgUnavailable   = "Store unavailable"
	msgRouteNotFound = "Route not found"
)

// APIError is a persistence failure translated for the client.
type APIError struct {
	Detail     model.ErrorDetail
	StatusCode int
}

func (e *APIError) Error() string {
	return e.Detail.Message
}

// Translate maps a persistence error onto the client-visible message and status.
// The error is logged before it is translated, whatever its kind.
func Translate(log zerolog.Logger, err error) *APIError {
	kind := repository.Kind(err)

	var out *APIError
	switch kind {
	case repository.KindNotFound:
		out = &APIError{Detail: model.ErrorDetail{Message: msgNotFound}, StatusCode: fiber.StatusNotFound}
	case repository.KindStorageFailure:
		out = &APIError{Detail: model.ErrorDetail{Message: msgUnexpected}, StatusCode: fiber.StatusInternalServerError}
	default:
		out = &APIError{Detail: model.ErrorDetail{Message: msgUnexpected}, StatusCode: fiber.StatusInternalServerError}
	}

	log.Error().Err(err).
		Str("error_kind", kind.String()).
		Int("status", out.StatusCode).
		Msg("persistence error")

	return out
}

// writeError writes an ErrorDetail body with the given status.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(model.ErrorDetail{Message: message})
}

func writeAPIError(c *fiber.Ctx, e *APIError) error {
	return c.Status(e.StatusCode).JSON(e.Detail)
}

// ErrorHandler renders errors that escape a handler as an ErrorDetail body
// without leaking internal details.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return writeAPIError(c, apiErr)
		}

		status := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, msgInvalidBody)
		case fiber.StatusNotFound:
			return writeError(c, status, msgNotFound)
		case fiber.StatusInternalServerError:
			log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
			return writeError(c, status, msgUnexpected)
		default:
			return writeError(c, status, statusText(status))
		}
	}
}

func statusText(status int) string {
	if msg := fiber.NewError(status).Message; msg != "" {
		return msg
	}
	return msgUnexpected
}
