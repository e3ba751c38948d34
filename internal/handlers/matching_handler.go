package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"digitaltalent/career-wizard/internal/models"
	"digitaltalent/career-wizard/internal/wizard"
)

type MatchingHandler struct {
	manager *wizard.Manager
}

func NewMatchingHandler(manager *wizard.Manager) *MatchingHandler {
	return &MatchingHandler{manager: manager}
}

// HandleGet enters the step on first visit and returns the current view.
func (h *MatchingHandler) HandleGet(c *fiber.Ctx) error {
	s, err := h.manager.Lookup(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}

	view, err := s.Matching.View(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(view)
}

func (h *MatchingHandler) HandleRetry(c *fiber.Ctx) error {
	s, err := h.manager.Lookup(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}

	view, err := s.Matching.Retry(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(view)
}

func (h *MatchingHandler) HandleSelect(c *fiber.Ctx) error {
	s, err := h.manager.Lookup(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}

	var req models.SelectRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.ID) == "" {
		return badRequest(c, "id is required")
	}

	nav, err := s.Matching.Select(c.UserContext(), req.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(nav)
}

// HandleLeave unmounts the step; a match still in flight is discarded.
func (h *MatchingHandler) HandleLeave(c *fiber.Ctx) error {
	s, err := h.manager.Lookup(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}

	s.Matching.Leave()
	return c.SendStatus(fiber.StatusNoContent)
}
