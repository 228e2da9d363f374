package middlewares

import (
	"errors"

	"clinica-backend/config"
	"clinica-backend/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
// Domain errors from the services layer surface with their own message;
// everything unexpected becomes a generic 500 and is logged server-side.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Fiber errors (use their status code + message)
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"erro": fe.Message})
	}

	// 2) Validation errors (422 + per-field info)
	if ve, ok := err.(validator.ValidationErrors); ok {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"erro":   "Dados inválidos.",
			"campos": out,
		})
	}

	// 3) Recoverable domain errors
	if services.IsDomainError(err) {
		status := fiber.StatusBadRequest
		if errors.Is(err, services.ErrAppointmentNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"erro": err.Error()})
	}

	// 4) Unknown errors (500)
	config.LogError("http", "ErrorHandler", c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"erro": "Erro interno no servidor.",
	})
}
