package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"digitaltalent/career-wizard/internal/models"
	"digitaltalent/career-wizard/internal/wizard"
)

type IntakeHandler struct {
	manager     *wizard.Manager
	maxFileSize int64
}

func NewIntakeHandler(manager *wizard.Manager, maxFileSize int64) *IntakeHandler {
	return &IntakeHandler{
		manager:     manager,
		maxFileSize: maxFileSize,
	}
}

func (h *IntakeHandler) HandleUpload(c *fiber.Ctx) error {
	s, err := h.manager.Lookup(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return respondError(c, wizard.ErrNoFile)
	}

	if h.maxFileSize > 0 && file.Size > h.maxFileSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": fmt.Sprintf("%s Max size: %d bytes", wizard.MsgFileTooLarge, h.maxFileSize),
			"code":  fiber.StatusRequestEntityTooLarge,
		})
	}

	src, err := file.Open()
	if err != nil {
		return respondError(c, fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return respondError(c, fmt.Errorf("failed to read uploaded file: %w", err))
	}

	parsed, err := h.manager.Intake().SubmitFile(c.UserContext(), s.Token, file.Filename, data)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(parsed)
}

func (h *IntakeHandler) HandleSubmit(c *fiber.Ctx) error {
	s, err := h.manager.Lookup(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}

	var req models.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	profile := models.Profile{Name: req.Name, CVText: req.CVText}
	next, err := h.manager.Intake().Submit(c.UserContext(), s.Token, profile)
	if err != nil {
		return respondError(c, err)
	}
	h.manager.ProfileSubmitted(s)

	return c.JSON(models.StepResponse{Next: string(next)})
}
