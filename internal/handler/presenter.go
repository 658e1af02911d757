package handler

import (
	"fmt"

	"gemini-multitool/internal/domain"
	"gemini-multitool/internal/dto"
	"gemini-multitool/internal/quiz"
)

func toTurnResponses(turns []domain.Turn) []dto.TurnResponse {
	out := make([]dto.TurnResponse, 0, len(turns))
	for _, t := range turns {
		out = append(out, toTurnResponse(t))
	}
	return out
}

func toTurnResponse(t domain.Turn) dto.TurnResponse {
	return dto.TurnResponse{
		Role:      string(t.Role),
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
	}
}

// toQuizResponse renders the quiz view. Items that cannot be shown stay in
// the list, flagged as skipped, so numbering and the total match the quiz.
func toQuizResponse(s *quiz.Session, busy bool) dto.QuizResponse {
	items := s.Items()
	answers := s.Answers()

	resp := dto.QuizResponse{
		Topic: s.Topic(),
		State: string(s.State()),
		Items: make([]dto.QuizItemResponse, 0, len(items)),
		Total: s.Total(),
		Busy:  busy,
	}
	if s.State() != quiz.StateIdle {
		resp.Heading = quiz.Heading(s.Topic())
	}

	for i, item := range items {
		view := dto.QuizItemResponse{
			Index:    i,
			Number:   i + 1,
			Problems: item.Problems,
		}
		if !item.Renderable() {
			view.Skipped = true
			view.Notice = fmt.Sprintf("Skipping malformed question %d", i+1)
		} else {
			view.Question = item.Question
			view.Options = item.Options
			view.Selected = answers[i]
		}
		resp.Items = append(resp.Items, view)
	}

	if score, ok := s.Score(); ok {
		resp.Score = &score
		resp.ScoreLine = fmt.Sprintf("Your Score: %d / %d", score, s.Total())
		for _, r := range s.Breakdown() {
			resp.Breakdown = append(resp.Breakdown, toResultResponse(r))
		}
	}
	return resp
}

func toResultResponse(r quiz.Result) dto.QuizResultResponse {
	summary := fmt.Sprintf("Your answer: %s", r.Answer)
	if r.Correct {
		summary += " (Correct!)"
	} else {
		summary += fmt.Sprintf(" | Correct answer: %s", r.CorrectAnswer)
	}
	return dto.QuizResultResponse{
		Index:         r.Index,
		Question:      fmt.Sprintf("Q%d: %s", r.Index+1, r.Question),
		Answer:        r.Answer,
		CorrectAnswer: r.CorrectAnswer,
		Correct:       r.Correct,
		Summary:       summary,
	}
}
