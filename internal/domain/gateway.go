package domain

import "context"

// GenerateRequest is one outbound call to the model service.
type GenerateRequest struct {
	Prompt string
	// History holds the prior turns of a conversational call, oldest first.
	History []Turn
	// Conversational sends History and Prompt as a multi-turn exchange.
	Conversational bool
	// Structured attaches the quiz output schema and asks for JSON only.
	Structured bool
}

// ModelGateway sends prompts to an external generative-language service.
// Implementations return raw text or a GATEWAY_FAILURE DomainError and never retry.
type ModelGateway interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
