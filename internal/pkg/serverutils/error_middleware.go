// FILE: internal/pkg/serverutils/error_middleware.go
package serverutils

import (
	"errors"
	"net/http"

	"chat-budgeting-be/internal/pkg/logger"
	"chat-budgeting-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the response
// envelope. Only 5xx details reach the log.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := Classify(err)
		if code >= http.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

// Classify maps err to an HTTP status and the text safe to return.
func Classify(err error) (int, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}
	return apperror.Status(err), apperror.PublicMessage(err)
}
