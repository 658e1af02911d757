package handler

import (
	"gemini-multitool/internal/dto"
	"gemini-multitool/internal/middleware"
	"gemini-multitool/internal/service"

	"github.com/gofiber/fiber/v2"
)

// HistoryHandler serves the read-only history view
type HistoryHandler struct {
	service service.ChatService
}

// NewHistoryHandler creates a new HistoryHandler instance
func NewHistoryHandler(service service.ChatService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// GetHistory godoc
// @Summary Get the chat history
// @Description Returns the conversation log without an input
// @Tags history
// @Produce json
// @Success 200 {object} dto.HistoryResponse
// @Router /history [get]
func (h *HistoryHandler) GetHistory(c *fiber.Ctx) error {
	turns := h.service.History(middleware.CurrentSession(c))
	resp := dto.HistoryResponse{
		Messages: toTurnResponses(turns),
		Count:    len(turns),
		Empty:    len(turns) == 0,
	}
	if resp.Empty {
		resp.Info = dto.HistoryEmptyMessage
	}
	return c.JSON(resp)
}

// ClearHistory godoc
// @Summary Clear the chat history
// @Description Removes every message of the current session. Clearing an empty history is a no-op.
// @Tags history
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /history [delete]
func (h *HistoryHandler) ClearHistory(c *fiber.Ctx) error {
	h.service.Clear(middleware.CurrentSession(c))
	return c.JSON(dto.MessageResponse{Message: dto.HistoryClearedMessage})
}
