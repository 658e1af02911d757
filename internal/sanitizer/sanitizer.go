// Package sanitizer pulls the quiz array out of free-form model output.
package sanitizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gemini-multitool/internal/domain"
	"gemini-multitool/internal/logger"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// ItemSchema is the JSON schema every quiz item is checked against.
const ItemSchema = `{
  "type": "object",
  "properties": {
    "question": {"type": "string", "minLength": 1},
    "options": {"type": "array", "items": {"type": "string"}, "minItems": 1},
    "correct_answer": {"type": "string"}
  },
  "required": ["question", "options", "correct_answer"]
}`

var (
	errNoArray = errors.New("no JSON array delimiters found in model response")

	itemSchema = mustCompile(ItemSchema)
)

func mustCompile(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("sanitizer: invalid item schema: %v", err))
	}
	return s
}

// Extract slices raw from the first '[' to the last ']' and parses the result as
// a JSON array of quiz items. A missing bracket or an unparsable slice yields a
// MALFORMED_RESPONSE error. Individually broken elements are kept, with their
// problems recorded on the item.
func Extract(raw string) ([]domain.QuizItem, error) {
	l := logger.Get()

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		l.Error("Could not find JSON array delimiters '[' and ']' in model response",
			zap.String("raw_response", raw))
		return nil, domain.NewMalformedResponseError(raw, errNoArray)
	}

	slice := raw[start : end+1]
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(slice), &elements); err != nil {
		l.Error("Failed to unmarshal extracted JSON array from model response",
			zap.Error(err),
			zap.String("json_string_tried_to_parse", slice),
			zap.String("raw_response", raw))
		return nil, domain.NewMalformedResponseError(raw, fmt.Errorf("failed to parse quiz array: %w", err))
	}

	items := make([]domain.QuizItem, 0, len(elements))
	for i, el := range elements {
		item := decodeItem(el)
		if item.Malformed() {
			l.Warn("Model returned a malformed quiz item",
				zap.Int("index", i),
				zap.Strings("problems", item.Problems),
				zap.ByteString("item", el))
		}
		items = append(items, item)
	}

	l.Debug("Extracted quiz items from model response", zap.Int("count", len(items)))
	return items, nil
}

// decodeItem reads each field on its own so that one badly typed field does not
// hide the others.
func decodeItem(el json.RawMessage) domain.QuizItem {
	item := domain.QuizItem{Raw: append(json.RawMessage(nil), el...)}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(el, &fields); err == nil {
		if v, ok := fields["question"]; ok {
			item.HasQuestion = json.Unmarshal(v, &item.Question) == nil
		}
		if v, ok := fields["options"]; ok {
			item.HasOptions = json.Unmarshal(v, &item.Options) == nil && item.Options != nil
			if !item.HasOptions {
				item.Options = nil
			}
		}
		if v, ok := fields["correct_answer"]; ok {
			item.HasCorrect = json.Unmarshal(v, &item.CorrectAnswer) == nil
		}
	}

	item.Problems = validateItem(el)
	return item
}

func validateItem(el json.RawMessage) []string {
	result, err := itemSchema.Validate(gojsonschema.NewBytesLoader(el))
	if err != nil {
		return []string{fmt.Sprintf("item is not valid JSON: %v", err)}
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return problems
}
