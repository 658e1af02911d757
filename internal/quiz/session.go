// Package quiz owns the lifecycle of one generated multiple-choice quiz:
// generation, answer collection, grading and retake.
package quiz

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"gemini-multitool/internal/domain"
)

// State is the position of a quiz Session in its lifecycle.
type State string

const (
	StateIdle       State = "IDLE"
	StateGenerating State = "GENERATING"
	StateReady      State = "READY"
	StateGraded     State = "GRADED"
)

// Session is the quiz aggregate of one user session.
//
// Items is empty when there is no active quiz. Answers is sparse and keyed by
// item index. Score is nil until a submit has been graded.
type Session struct {
	topic   string
	state   State
	items   []domain.QuizItem
	answers map[int]string
	score   *int
}

// NewSession returns an idle quiz with nothing generated.
func NewSession() *Session {
	return &Session{state: StateIdle, answers: map[int]string{}}
}

func (s *Session) State() State  { return s.state }
func (s *Session) Topic() string { return s.topic }

// Items returns a copy of the generated items.
func (s *Session) Items() []domain.QuizItem {
	out := make([]domain.QuizItem, len(s.items))
	copy(out, s.items)
	return out
}

// Answers returns a copy of the recorded answers.
func (s *Session) Answers() map[int]string {
	out := make(map[int]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Score returns the graded score and whether grading has happened.
func (s *Session) Score() (int, bool) {
	if s.score == nil {
		return 0, false
	}
	return *s.score, true
}

// Total is the score denominator. It counts every item, including the ones
// skipped as malformed when the quiz is shown.
func (s *Session) Total() int {
	return len(s.items)
}

// BeginGeneration validates the topic and clears any previous quiz.
// A blank topic is rejected and leaves the session untouched.
func (s *Session) BeginGeneration(topic string) error {
	if strings.TrimSpace(topic) == "" {
		return domain.NewInvalidInputError("Please enter a topic first.")
	}
	s.clear()
	s.topic = topic
	s.state = StateGenerating
	return nil
}

// CompleteGeneration stores the sanitized items. An empty result sends the
// session back to IDLE with an EMPTY_QUIZ error.
func (s *Session) CompleteGeneration(items []domain.QuizItem) error {
	if s.state != StateGenerating {
		return domain.NewInvalidStateError("No quiz generation is in progress")
	}
	if len(items) == 0 {
		s.FailGeneration()
		return domain.NewEmptyQuizError()
	}
	s.items = append([]domain.QuizItem(nil), items...)
	s.state = StateReady
	return nil
}

// FailGeneration returns to IDLE with no items.
func (s *Session) FailGeneration() {
	s.items = nil
	s.state = StateIdle
}

// Submit records one selection per shown item and grades the quiz.
//
// Every renderable item that offers at least one option and has no selection
// is answered with its first option, the way a radio group preselects it.
// Items that cannot be shown are never answered. A selection must name a
// renderable item and be one of its options.
func (s *Session) Submit(selections map[int]string) error {
	if s.state != StateReady && s.state != StateGraded {
		return domain.NewInvalidStateError("There is no quiz to submit")
	}

	var verrs domain.ValidationErrors
	for i, choice := range selections {
		field := answerField(i)
		if i < 0 || i >= len(s.items) {
			verrs = append(verrs, domain.NewOutOfRangeError(field, i, 0, len(s.items)-1))
			continue
		}
		item := s.items[i]
		if !item.Renderable() {
			verrs = append(verrs, domain.NewInvalidFormatError(field, choice))
			continue
		}
		if !item.HasOption(choice) {
			verrs = append(verrs, domain.NewInvalidFormatError(field, choice))
		}
	}
	if len(verrs) > 0 {
		sort.Slice(verrs, func(a, b int) bool { return verrs[a].Field < verrs[b].Field })
		return verrs
	}

	answers := make(map[int]string, len(s.items))
	for i, item := range s.items {
		if !item.Renderable() {
			continue
		}
		if choice, ok := selections[i]; ok {
			answers[i] = choice
		} else if len(item.Options) > 0 {
			answers[i] = item.Options[0]
		}
	}

	score := Grade(s.items, answers)
	s.answers = answers
	s.score = &score
	s.state = StateGraded
	return nil
}

// Retake drops the quiz and returns to IDLE.
func (s *Session) Retake() {
	s.clear()
	s.state = StateIdle
}

func (s *Session) clear() {
	s.items = nil
	s.answers = map[int]string{}
	s.score = nil
}

// Grade counts the items whose answer equals the correct answer text exactly.
// Items without a correct answer never count.
func Grade(items []domain.QuizItem, answers map[int]string) int {
	score := 0
	for i, item := range items {
		answer, ok := answers[i]
		if !ok || !item.HasCorrectAnswer() {
			continue
		}
		if answer == item.CorrectAnswer {
			score++
		}
	}
	return score
}

// Result is one line of the graded breakdown.
type Result struct {
	Index         int    `json:"index"`
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
}

// Breakdown lists the graded items in order. Items without an answer, a
// question or a correct answer are left out.
func (s *Session) Breakdown() []Result {
	if s.score == nil {
		return nil
	}
	results := make([]Result, 0, len(s.items))
	for i, item := range s.items {
		answer, ok := s.answers[i]
		if !ok || !item.HasCorrectAnswer() || !item.HasQuestion {
			continue
		}
		results = append(results, Result{
			Index:         i,
			Question:      item.Question,
			Answer:        answer,
			CorrectAnswer: item.CorrectAnswer,
			Correct:       answer == item.CorrectAnswer,
		})
	}
	return results
}

func answerField(i int) string {
	return "answers." + strconv.Itoa(i)
}

type sessionJSON struct {
	Topic   string            `json:"topic"`
	State   State             `json:"state"`
	Items   []domain.QuizItem `json:"items"`
	Answers map[int]string    `json:"answers"`
	Score   *int              `json:"score"`
}

func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionJSON{
		Topic:   s.topic,
		State:   s.state,
		Items:   s.items,
		Answers: s.answers,
		Score:   s.score,
	})
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var payload sessionJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	s.topic = payload.Topic
	s.state = payload.State
	if s.state == "" {
		s.state = StateIdle
	}
	s.items = payload.Items
	s.answers = payload.Answers
	if s.answers == nil {
		s.answers = map[int]string{}
	}
	s.score = payload.Score
	return nil
}
