package validation

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"gemini-multitool/internal/domain"
	"gemini-multitool/internal/util"
)

const (
	MaxMessageLength = 8000
	MaxTopicLength   = 200
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateChatMessage validates the chat input
func (v *Validator) ValidateChatMessage(message string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(message) == "" {
		errors = append(errors, domain.NewMissingFieldError("message"))
	} else if n := utf8.RuneCountInString(message); n > MaxMessageLength {
		errors = append(errors, domain.NewOutOfRangeError("message", n, 1, MaxMessageLength))
	}

	return errors
}

// ValidateTopic validates the quiz topic
func (v *Validator) ValidateTopic(topic string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(topic) == "" {
		errors = append(errors, domain.NewMissingFieldError("topic"))
	} else if n := utf8.RuneCountInString(topic); n > MaxTopicLength {
		errors = append(errors, domain.NewOutOfRangeError("topic", n, 1, MaxTopicLength))
	}

	return errors
}

// ParseAnswers converts answer keys ("0", "1", ...) into item indices.
// Range and option checks happen against the quiz itself.
func (v *Validator) ParseAnswers(answers map[string]string) (map[int]string, domain.ValidationErrors) {
	var errors domain.ValidationErrors
	parsed := make(map[int]string, len(answers))

	for key, choice := range answers {
		idx, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || idx < 0 {
			errors = append(errors, domain.NewInvalidFormatError("answers", key))
			continue
		}
		if _, dup := parsed[idx]; dup {
			errors = append(errors, domain.NewInvalidFormatError("answers", key))
			continue
		}
		parsed[idx] = choice
	}

	if len(errors) > 0 {
		sort.Slice(errors, func(a, b int) bool {
			return errors[a].Value.(string) < errors[b].Value.(string)
		})
		return nil, errors
	}
	return parsed, nil
}

// ValidateSessionID checks the identifier carried by the session cookie.
func (v *Validator) ValidateSessionID(id string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError("session_id"))
	} else if !util.IsULID(id) {
		errors = append(errors, domain.NewInvalidFormatError("session_id", id))
	}

	return errors
}
