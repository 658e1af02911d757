package service

import (
	"context"

	"gemini-multitool/internal/domain"
	"gemini-multitool/internal/logger"
	"gemini-multitool/internal/quiz"
	"gemini-multitool/internal/sanitizer"
	"gemini-multitool/internal/session"

	"go.uber.org/zap"
)

// QuizService drives the quiz lifecycle of a session.
type QuizService interface {
	// Generate asks the model for a new quiz on topic. A blank topic is
	// rejected without touching the session.
	Generate(ctx context.Context, sess *session.Session, topic string) error
	// Submit grades the quiz; unanswered shown items default to their first option.
	Submit(sess *session.Session, selections map[int]string) error
	// Retake clears the quiz.
	Retake(sess *session.Session)
}

type quizService struct {
	gateway domain.ModelGateway
}

// NewQuizService creates a new instance of quizService
func NewQuizService(gateway domain.ModelGateway) QuizService {
	return &quizService{gateway: gateway}
}

func (s *quizService) Generate(ctx context.Context, sess *session.Session, topic string) error {
	if err := sess.Quiz.BeginGeneration(topic); err != nil {
		return err
	}

	l := logger.Get().With(zap.String("session_id", sess.ID), zap.String("topic", topic))
	l.Info("Generating quiz", zap.Int("questions", quiz.QuestionCount))

	raw, err := s.gateway.Generate(ctx, domain.GenerateRequest{
		Prompt:     quiz.BuildPrompt(topic),
		Structured: true,
	})
	if err != nil {
		sess.Quiz.FailGeneration()
		return asGatewayFailure(err)
	}

	items, err := sanitizer.Extract(raw)
	if err != nil {
		sess.Quiz.FailGeneration()
		return err
	}

	if err := sess.Quiz.CompleteGeneration(items); err != nil {
		l.Warn("Quiz generation produced no items", zap.Error(err))
		return err
	}

	malformed := 0
	for _, item := range items {
		if item.Malformed() {
			malformed++
		}
	}
	l.Info("Quiz ready", zap.Int("items", len(items)), zap.Int("malformed_items", malformed))
	return nil
}

func (s *quizService) Submit(sess *session.Session, selections map[int]string) error {
	if err := sess.Quiz.Submit(selections); err != nil {
		return err
	}
	score, _ := sess.Quiz.Score()
	logger.Get().Info("Quiz graded",
		zap.String("session_id", sess.ID),
		zap.Int("score", score),
		zap.Int("total", sess.Quiz.Total()))
	return nil
}

func (s *quizService) Retake(sess *session.Session) {
	sess.Quiz.Retake()
	logger.Get().Info("Quiz cleared for retake", zap.String("session_id", sess.ID))
}
