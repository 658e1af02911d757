package handler

import (
	"gemini-multitool/internal/dto"
	"gemini-multitool/internal/middleware"
	"gemini-multitool/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler handles the chat view
type ChatHandler struct {
	service service.ChatService
}

// NewChatHandler creates a new ChatHandler instance
func NewChatHandler(service service.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// GetMessages godoc
// @Summary Get the conversation
// @Description Returns every message of the current session in order
// @Tags chat
// @Produce json
// @Success 200 {object} dto.ChatResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /chat [get]
func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	return c.JSON(dto.ChatResponse{
		Messages: toTurnResponses(h.service.History(sess)),
		Busy:     middleware.SessionBusy(c),
	})
}

// SendMessage godoc
// @Summary Send a chat message
// @Description Appends the message, asks the model with the conversation so far and appends the reply.
// @Description If the model call fails the message stays in the conversation without a reply.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Message"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /chat [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	message, _ := c.Locals(middleware.ValidatedMessageKey).(string)

	reply, err := h.service.Send(c.UserContext(), sess, message)
	if err != nil {
		return err
	}

	replyView := toTurnResponse(reply)
	return c.JSON(dto.ChatResponse{
		Reply:    &replyView,
		Messages: toTurnResponses(h.service.History(sess)),
	})
}
