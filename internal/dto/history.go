package dto

const (
	HistoryEmptyMessage   = "Your chat history is empty. Start a conversation in the chat tab!"
	HistoryClearedMessage = "Chat history cleared!"
)

// HistoryResponse represents the read-only history view
type HistoryResponse struct {
	Messages []TurnResponse `json:"messages"`
	Count    int            `json:"count"`
	Empty    bool           `json:"empty"`
	Info     string         `json:"info,omitempty"`
}

// MessageResponse carries a single notice for the user.
type MessageResponse struct {
	Message string `json:"message"`
}
