package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"digitaltalent/career-wizard/internal/models"
	"digitaltalent/career-wizard/internal/wizard"
)

type PanelsHandler struct {
	manager *wizard.Manager
}

func NewPanelsHandler(manager *wizard.Manager) *PanelsHandler {
	return &PanelsHandler{manager: manager}
}

func (h *PanelsHandler) HandleGet(c *fiber.Ctx) error {
	s, err := h.manager.Lookup(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}

	view, err := h.manager.Panels().Load(c.UserContext(), s.Token)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(view)
}

func (h *PanelsHandler) HandleCopy(c *fiber.Ctx) error {
	s, err := h.manager.Lookup(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}

	var req models.CopyRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Site) == "" {
		return badRequest(c, "site is required")
	}

	result, err := h.manager.Panels().CopySearch(c.UserContext(), s.Token, req.Site)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}
