package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gemini-multitool/internal/config"
	"gemini-multitool/internal/domain"
	"gemini-multitool/internal/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

var errEmptyResponse = errors.New("model returned an empty response")

// QuizSchema constrains structured replies to an array of quiz items.
var QuizSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"question": {Type: genai.TypeString},
			"options": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"correct_answer": {Type: genai.TypeString},
		},
		Required: []string{"question", "options", "correct_answer"},
	},
}

// GeminiGateway calls the Gemini API through the Google Gen AI SDK.
type GeminiGateway struct {
	client *genai.Client
	model  string
}

// NewGeminiGateway creates a gateway bound to one model.
func NewGeminiGateway(ctx context.Context, cfg config.GeminiConfig, httpClient *http.Client) (*GeminiGateway, error) {
	if cfg.APIKey == "" {
		return nil, domain.NewConfigurationError("Gemini API key cannot be empty")
	}
	if cfg.Model == "" {
		return nil, domain.NewConfigurationError("Gemini model name cannot be empty")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger.Get().Info("Initializing GeminiGateway", zap.String("model", cfg.Model))
	return &GeminiGateway{client: client, model: cfg.Model}, nil
}

// Generate implements domain.ModelGateway.
func (g *GeminiGateway) Generate(ctx context.Context, req domain.GenerateRequest) (string, error) {
	var contents []*genai.Content
	if req.Conversational {
		contents = make([]*genai.Content, 0, len(req.History)+1)
		for _, turn := range req.History {
			contents = append(contents, textContent(turn.Role, turn.Content))
		}
	}
	contents = append(contents, textContent(domain.RoleUser, req.Prompt))

	var genCfg *genai.GenerateContentConfig
	if req.Structured {
		genCfg = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   QuizSchema,
		}
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, genCfg)
	if err != nil {
		return "", failure("gemini", req, err)
	}

	text := result.Text()
	if text == "" {
		return "", failure("gemini", req, errEmptyResponse)
	}

	logger.Get().Debug("Raw Gemini response received", zap.String("raw_response", text))
	return text, nil
}

func textContent(role domain.Role, text string) *genai.Content {
	return &genai.Content{
		Role:  string(role),
		Parts: []*genai.Part{{Text: text}},
	}
}

var _ domain.ModelGateway = (*GeminiGateway)(nil)
