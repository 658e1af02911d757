package domain

import "encoding/json"

// QuizItem is one generated multiple-choice question.
//
// Items come from an unreliable model response, so presence of each field is
// tracked separately from its value. Problems lists everything the sanitizer
// found wrong with the item; a non-empty list does not remove the item.
type QuizItem struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`

	// HasQuestion is true when the key is present, even if its value is null.
	// A null question renders blank and is listed in Problems.
	HasQuestion bool            `json:"has_question"`
	HasOptions  bool            `json:"has_options"`
	HasCorrect  bool            `json:"has_correct_answer"`
	Problems    []string        `json:"problems,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"`
}

// Renderable reports whether the item can be shown as a single-choice question.
func (q QuizItem) Renderable() bool {
	return q.HasQuestion && q.HasOptions
}

// HasCorrectAnswer reports whether the item can be graded at all.
func (q QuizItem) HasCorrectAnswer() bool {
	return q.HasCorrect
}

// HasOption reports whether text is exactly one of the item's options.
func (q QuizItem) HasOption(text string) bool {
	for _, o := range q.Options {
		if o == text {
			return true
		}
	}
	return false
}

// Malformed reports whether any problem was recorded for the item.
func (q QuizItem) Malformed() bool {
	return len(q.Problems) > 0
}
