package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"digitaltalent/career-wizard/internal/wizard"
)

// SetupRoutes mounts the wizard API under /api/v1.
func SetupRoutes(app *fiber.App, manager *wizard.Manager, maxFileSize int64, backendMode string) {
	sessionHandler := NewSessionHandler(manager)
	intakeHandler := NewIntakeHandler(manager, maxFileSize)
	matchingHandler := NewMatchingHandler(manager)
	panelsHandler := NewPanelsHandler(manager)
	assistantHandler := NewAssistantHandler(manager)

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"backend":  backendMode,
			"sessions": manager.Len(),
			"time":     time.Now(),
		})
	})

	api.Post("/sessions", sessionHandler.HandleCreate)
	api.Delete("/sessions/:token", sessionHandler.HandleStartOver)

	session := api.Group("/sessions/:token")

	session.Post("/cv", intakeHandler.HandleUpload)
	session.Post("/profile", intakeHandler.HandleSubmit)

	session.Get("/matching", matchingHandler.HandleGet)
	session.Post("/matching/retry", matchingHandler.HandleRetry)
	session.Post("/matching/select", matchingHandler.HandleSelect)
	session.Delete("/matching", matchingHandler.HandleLeave)

	session.Get("/panels", panelsHandler.HandleGet)
	session.Post("/search/copy", panelsHandler.HandleCopy)

	session.Get("/assistant", assistantHandler.HandleGet)
	session.Post("/assistant/messages", assistantHandler.HandleSend)
	session.Post("/assistant/reset", assistantHandler.HandleReset)
}
