package dto

import "time"

// TurnResponse is one message in a conversation.
type TurnResponse struct {
	Role      string    `json:"role" example:"user"`
	Content   string    `json:"content" example:"What is a goroutine?"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatRequest represents a message typed into the chat input
// @Description Request body for sending a chat message
type ChatRequest struct {
	Message string `json:"message" example:"What is a goroutine?"`
}

// ChatResponse represents the chat view
// @Description Conversation log with the latest reply
type ChatResponse struct {
	Reply    *TurnResponse  `json:"reply,omitempty"`
	Messages []TurnResponse `json:"messages"`
	Busy     bool           `json:"busy"`
}
