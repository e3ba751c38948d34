package handlers

import (
	"github.com/gofiber/fiber/v2"

	"digitaltalent/career-wizard/internal/models"
	"digitaltalent/career-wizard/internal/wizard"
)

type SessionHandler struct {
	manager *wizard.Manager
}

func NewSessionHandler(manager *wizard.Manager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

func (h *SessionHandler) HandleCreate(c *fiber.Ctx) error {
	s := h.manager.Create()
	return c.Status(fiber.StatusCreated).JSON(models.SessionResponse{
		Token: s.Token,
		Step:  string(wizard.StepIntake),
	})
}

// HandleStartOver clears everything the session stored.
func (h *SessionHandler) HandleStartOver(c *fiber.Ctx) error {
	token := c.Params("token")
	if _, err := h.manager.Lookup(c.UserContext(), token); err != nil {
		return respondError(c, err)
	}

	if err := h.manager.StartOver(c.UserContext(), token); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
