package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/marcobit/clawcrm/internal/services"
)

// writeError maps a domain error onto the facade's uniform error envelope.
// Successful responses are bare payloads; only errors are wrapped, and only
// the message crosses the boundary.
func writeError(c *fiber.Ctx, err error) error {
	var domErr *services.Error
	if errors.As(err, &domErr) {
		return c.Status(statusFor(domErr.Kind)).JSON(fiber.Map{"error": domErr.Message})
	}
	var fibErr *fiber.Error
	if errors.As(err, &fibErr) {
		return c.Status(fibErr.Code).JSON(fiber.Map{"error": fibErr.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindInput, services.KindUnsupported:
		return fiber.StatusBadRequest
	case services.KindAccessDenied:
		return fiber.StatusForbidden
	case services.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
