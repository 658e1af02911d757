package middleware

import (
	"gemini-multitool/internal/domain"
	"gemini-multitool/internal/dto"
	"gemini-multitool/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	ValidatedMessageKey = "validated_message"
	ValidatedTopicKey   = "validated_topic"
	ValidatedAnswersKey = "validated_answers"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateChatRequest validates the chat message body
func (vm *ValidationMiddleware) ValidateChatRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.ChatRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.ValidationErrors{domain.NewInvalidFormatError("body", string(c.Body()))}
		}

		if errors := vm.validator.ValidateChatMessage(req.Message); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}

		c.Locals(ValidatedMessageKey, req.Message)
		return c.Next()
	}
}

// ValidateGenerateQuizRequest validates the quiz topic body
func (vm *ValidationMiddleware) ValidateGenerateQuizRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.GenerateQuizRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.ValidationErrors{domain.NewInvalidFormatError("body", string(c.Body()))}
		}

		if errors := vm.validator.ValidateTopic(req.Topic); len(errors) > 0 {
			return errors
		}

		c.Locals(ValidatedTopicKey, req.Topic)
		return c.Next()
	}
}

// ValidateSubmitQuizRequest parses the answer keys into item indices.
// An empty body submits with every answer defaulted.
func (vm *ValidationMiddleware) ValidateSubmitQuizRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.SubmitQuizRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return domain.ValidationErrors{domain.NewInvalidFormatError("body", string(c.Body()))}
			}
		}

		answers, errors := vm.validator.ParseAnswers(req.Answers)
		if len(errors) > 0 {
			return errors
		}

		c.Locals(ValidatedAnswersKey, answers)
		return c.Next()
	}
}
