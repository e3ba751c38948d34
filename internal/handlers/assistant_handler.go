package handlers

import (
	"github.com/gofiber/fiber/v2"

	"digitaltalent/career-wizard/internal/models"
	"digitaltalent/career-wizard/internal/wizard"
)

type AssistantHandler struct {
	manager *wizard.Manager
}

func NewAssistantHandler(manager *wizard.Manager) *AssistantHandler {
	return &AssistantHandler{manager: manager}
}

func (h *AssistantHandler) HandleGet(c *fiber.Ctx) error {
	s, err := h.manager.Lookup(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}

	view, err := s.Assistant.View(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(view)
}

func (h *AssistantHandler) HandleSend(c *fiber.Ctx) error {
	s, err := h.manager.Lookup(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}

	var req models.MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	messages, err := s.Assistant.Send(c.UserContext(), req.Message)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.MessagesResponse{Messages: messages})
}

func (h *AssistantHandler) HandleReset(c *fiber.Ctx) error {
	s, err := h.manager.Lookup(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}

	s.Assistant.Reset()

	view, err := s.Assistant.View(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(view)
}
