package gateway

import (
	"context"
	"fmt"
	"net/http"

	"gemini-multitool/internal/domain"
	"gemini-multitool/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// LangchainGateway sends prompts through any langchaingo model.
// Structured calls use JSON mode; langchaingo has no portable response schema,
// so the item shape is left to the prompt and the sanitizer.
type LangchainGateway struct {
	llm      llms.Model
	provider string
}

// NewLangchainGateway wraps an existing langchaingo model.
func NewLangchainGateway(llm llms.Model, provider string) *LangchainGateway {
	return &LangchainGateway{llm: llm, provider: provider}
}

// NewOllamaGateway connects to an Ollama server.
func NewOllamaGateway(serverURL, model string, httpClient *http.Client) (*LangchainGateway, error) {
	if serverURL == "" {
		return nil, domain.NewConfigurationError("ollama server URL cannot be empty")
	}
	if model == "" {
		return nil, domain.NewConfigurationError("ollama model name cannot be empty")
	}
	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(model),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama client: %w", err)
	}
	logger.Get().Info("Initializing Ollama gateway", zap.String("server_url", serverURL), zap.String("model", model))
	return NewLangchainGateway(llm, "ollama"), nil
}

// NewOpenAIGateway connects to the OpenAI chat completion API.
func NewOpenAIGateway(apiKey, model string) (*LangchainGateway, error) {
	if apiKey == "" {
		return nil, domain.NewConfigurationError("openai API key cannot be empty")
	}
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI client: %w", err)
	}
	logger.Get().Info("Initializing OpenAI gateway", zap.String("model", model))
	return NewLangchainGateway(llm, "openai"), nil
}

// Generate implements domain.ModelGateway.
func (g *LangchainGateway) Generate(ctx context.Context, req domain.GenerateRequest) (string, error) {
	var messages []llms.MessageContent
	if req.Conversational {
		messages = make([]llms.MessageContent, 0, len(req.History)+1)
		for _, turn := range req.History {
			messages = append(messages, llms.TextParts(messageType(turn.Role), turn.Content))
		}
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))

	var opts []llms.CallOption
	if req.Structured {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := g.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", failure(g.provider, req, err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", failure(g.provider, req, errEmptyResponse)
	}

	text := resp.Choices[0].Content
	logger.Get().Debug("Raw model response received", zap.String("provider", g.provider), zap.String("raw_response", text))
	return text, nil
}

func messageType(role domain.Role) llms.ChatMessageType {
	if role == domain.RoleModel {
		return llms.ChatMessageTypeAI
	}
	return llms.ChatMessageTypeHuman
}

var _ domain.ModelGateway = (*LangchainGateway)(nil)
