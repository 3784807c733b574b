package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marcobit/clawcrm/internal/services"
)

// SessionsHandler exposes the session list over HTTP
type SessionsHandler struct {
	sessions *services.SessionService
}

// NewSessionsHandler creates a new sessions handler
func NewSessionsHandler(sessions *services.SessionService) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

// ListSessions returns all probed sessions, newest-first
// @Summary List sessions
// @Produce json
// @Success 200 {array} models.Session
// @Router /api/sessions [get]
func (h *SessionsHandler) ListSessions(c *fiber.Ctx) error {
	return c.JSON(h.sessions.List(c.Context()))
}
