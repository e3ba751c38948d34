package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"digitaltalent/career-wizard/internal/services"
	"digitaltalent/career-wizard/internal/wizard"
)

// ErrorHandler renders errors that escape a handler as {"error","code"}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

// respondError maps wizard errors to status codes.
func respondError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var stepErr *wizard.StepError
	switch {
	case errors.As(err, &stepErr):
		code = fiber.StatusUnprocessableEntity
		message = stepErr.Message
	case errors.Is(err, wizard.ErrUnknownSession):
		code = fiber.StatusNotFound
	case errors.Is(err, wizard.ErrBusy),
		errors.Is(err, wizard.ErrNotReady),
		errors.Is(err, wizard.ErrNoSelection):
		code = fiber.StatusConflict
	case errors.Is(err, wizard.ErrEmptyCV),
		errors.Is(err, wizard.ErrEmptyMessage),
		errors.Is(err, wizard.ErrNoFile),
		errors.Is(err, wizard.ErrNoCandidate),
		errors.Is(err, services.ErrUnknownSite):
		code = fiber.StatusBadRequest
	case errors.Is(err, wizard.ErrFileTooLarge):
		code = fiber.StatusRequestEntityTooLarge
	default:
		log.Printf("❌ %s %s failed: %v\n", c.Method(), c.Path(), err)
		message = "internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
		"code":  fiber.StatusBadRequest,
	})
}
