package server

import (
	"errors"
	"log/slog"
	"net/http"

	"socialapi/internal/middleware"
	"socialapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the id stored by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// respondError logs unexpected failures and writes err as a JSON error body.
func respondError(c *fiber.Ctx, err error) error {
	if !models.IsCode(err, models.CodeValidation) &&
		!models.IsCode(err, models.CodeUnauthorized) &&
		!models.IsCode(err, models.CodeForbidden) &&
		!models.IsCode(err, models.CodeNotFound) &&
		!models.IsCode(err, models.CodeConflict) {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, err)
}

// errorHandler renders errors that escape handlers, including fiber's own
// routing errors, in the API error shape.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{
			Detail: fe.Message,
			Code:   codeForStatus(fe.Code),
		})
	}
	return respondError(c, err)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return models.CodeValidation
	case http.StatusUnauthorized:
		return models.CodeUnauthorized
	case http.StatusForbidden:
		return models.CodeForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return models.CodeNotFound
	case http.StatusConflict:
		return models.CodeConflict
	default:
		if status >= http.StatusInternalServerError {
			return models.CodeInternal
		}
		return ""
	}
}
