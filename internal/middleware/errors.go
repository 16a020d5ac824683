package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/trigate/trigate/internal/mfa"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorHandler renders flow errors with their stable code and status, and
// Fiber errors with a code derived from the status text.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var flowErr *mfa.Error
		if errors.As(err, &flowErr) {
			return c.Status(flowErr.Status()).JSON(ErrorBody{Error: flowErr.Code, Message: flowErr.Message})
		}

		status := http.StatusInternalServerError
		message := "internal error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			message = fe.Message
		} else {
			logger.Error("unhandled error", slog.Any("error", err))
		}
		return c.Status(status).JSON(ErrorBody{Error: statusCode(status), Message: message})
	}
}

func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}
