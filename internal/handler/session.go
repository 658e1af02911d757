package handler

import (
	"github.com/gofiber/fiber/v2"
)

// SessionEnder removes the session bound to a request.
type SessionEnder interface {
	End(c *fiber.Ctx) error
}

// SessionHandler handles session teardown
type SessionHandler struct {
	sessions SessionEnder
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(sessions SessionEnder) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// EndSession godoc
// @Summary End the session
// @Description Discards the conversation and quiz of the current session
// @Tags session
// @Success 204
// @Failure 409 {object} middleware.ErrorResponse
// @Router /session [delete]
func (h *SessionHandler) EndSession(c *fiber.Ctx) error {
	if err := h.sessions.End(c); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
