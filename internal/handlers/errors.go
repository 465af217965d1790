package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/patlouis/e-commerce-bookstore/internal/middleware"
	"github.com/patlouis/e-commerce-bookstore/internal/models"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{models.ErrUnauthenticated, fiber.StatusUnauthorized},
	{models.ErrForbidden, fiber.StatusForbidden},
	{models.ErrValidation, fiber.StatusBadRequest},
	{models.ErrEmptyCart, fiber.StatusBadRequest},
	{models.ErrNotFound, fiber.StatusNotFound},
	{models.ErrConflict, fiber.StatusConflict},
}

// statusOf maps a service error to an HTTP status. Unknown errors are 500.
func statusOf(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return fiber.StatusInternalServerError
}

// writeError logs err and responds with message. Only validation errors
// carry their text, which names the offending input.
func writeError(c *fiber.Ctx, err error, message string) error {
	status := statusOf(err)
	log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	if errors.Is(err, models.ErrValidation) {
		return c.Status(status).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
	})
}

// validationFailed responds 400 with one message per invalid field.
func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
		})
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

func invalidBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing %s %s request body: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
	})
}

// identity returns the caller resolved by middleware.AuthRequired.
func identity(c *fiber.Ctx) (models.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return models.Identity{}, fmt.Errorf("no identity on request: %w", models.ErrUnauthenticated)
	}
	return id, nil
}
