package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"studentapi/internal/http/middleware"
)

// msgStorageFailure is the only text a client ever sees for a failed store call.
const msgStorageFailure = "Something went wrong !!"

// errorPayload defines the standardized error response body. Detail is a
// string for most errors and a list of validation issues for 422.
type errorPayload struct {
	Detail    any    `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, detail any) error {
	return c.Status(status).JSON(errorPayload{
		Detail:    detail,
		RequestID: middleware.RequestIDFromCtx(c),
	})
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusNotFound:
			return writeError(c, status, "Not Found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "Method Not Allowed")
		case fiber.StatusInternalServerError:
			return writeError(c, status, msgStorageFailure)
		default:
			return writeError(c, status, fe.Message)
		}
	}
}
