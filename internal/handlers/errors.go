package handlers

import (
	"errors"

	"realestatecrm/internal/common"
	"realestatecrm/internal/logging"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps a service error onto its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrInvalidReference):
		return fiber.StatusBadRequest
	case errors.Is(err, common.ErrInvalidCredentials), errors.Is(err, common.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, common.ErrConflict), errors.Is(err, common.ErrDuplicate):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the {"message", "error"} body for err. Validation
// failures also name the offending field.
func respondError(c *fiber.Ctx, log logging.Logger, message string, err error) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Error(c.UserContext(), message, "path", c.Path(), "err", err)
	} else {
		log.Debug(c.UserContext(), message, "path", c.Path(), "status", status, "err", err)
	}

	body := fiber.Map{
		"message": message,
		"error":   err.Error(),
	}
	var vErr *common.ValidationError
	if errors.As(err, &vErr) && vErr.Field != "" {
		body["field"] = vErr.Field
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
