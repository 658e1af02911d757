// Package gateway adapts external generative-language services to domain.ModelGateway.
package gateway

import (
	"context"
	"fmt"
	"net/http"

	"gemini-multitool/internal/config"
	"gemini-multitool/internal/domain"
	"gemini-multitool/internal/logger"

	"go.uber.org/zap"
)

// New builds the gateway for the configured provider.
func New(ctx context.Context, cfg config.LLMConfig) (domain.ModelGateway, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiGateway(ctx, cfg.Gemini, http.DefaultClient)
	case config.ProviderOpenAI:
		return NewOpenAIGateway(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case config.ProviderOllama:
		return NewOllamaGateway(cfg.Ollama.ServerURL, cfg.Ollama.Model, http.DefaultClient)
	default:
		return nil, domain.NewConfigurationError(fmt.Sprintf("unsupported llm.provider: %q", cfg.Provider))
	}
}

// failure logs the full error for operators and returns the user-facing GATEWAY_FAILURE.
func failure(provider string, req domain.GenerateRequest, err error) error {
	logger.Get().Error("Error calling model service",
		zap.String("provider", provider),
		zap.Error(err),
		zap.String("prompt", req.Prompt),
		zap.Bool("json_mode", req.Structured),
		zap.Bool("conversational", req.Conversational),
		zap.Int("history_turns", len(req.History)),
	)
	return domain.NewGatewayFailure(err)
}
