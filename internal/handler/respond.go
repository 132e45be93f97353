package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wakandasalud/clinic-api/internal/domain"
)

// envelope is the response shape shared by every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondList(c *fiber.Ctx, message string, data any, count int) error {
	return c.Status(fiber.StatusOK).JSON(envelope{
		Success: true,
		Message: message,
		Data:    data,
		Count:   &count,
	})
}

// respondDegraded reports a request whose primary effect succeeded while the
// best-effort notification sub-flow failed: still a success, with the
// captured error text alongside.
func respondDegraded(c *fiber.Ctx, status int, message string, data any, subflowErr error) error {
	return c.Status(status).JSON(envelope{
		Success: true,
		Message: message,
		Data:    data,
		Error:   subflowErr.Error(),
	})
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrPersistence):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}
