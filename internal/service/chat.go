package service

import (
	"context"
	"strings"

	"gemini-multitool/internal/domain"
	"gemini-multitool/internal/logger"
	"gemini-multitool/internal/session"

	"go.uber.org/zap"
)

// ChatService runs the conversational assistant for one session at a time.
type ChatService interface {
	// Send appends the user's message, asks the model with the prior turns as
	// context and appends the reply. On failure the user turn stays unanswered.
	Send(ctx context.Context, sess *session.Session, message string) (domain.Turn, error)
	History(sess *session.Session) []domain.Turn
	Clear(sess *session.Session)
}

type chatService struct {
	gateway domain.ModelGateway
}

// NewChatService creates a new instance of chatService
func NewChatService(gateway domain.ModelGateway) ChatService {
	return &chatService{gateway: gateway}
}

func (s *chatService) Send(ctx context.Context, sess *session.Session, message string) (domain.Turn, error) {
	if strings.TrimSpace(message) == "" {
		return domain.Turn{}, domain.NewInvalidInputError("message cannot be empty")
	}

	prior := sess.Conversation.History()
	sess.Conversation.Append(domain.RoleUser, message)

	reply, err := s.gateway.Generate(ctx, domain.GenerateRequest{
		Prompt:         message,
		History:        prior,
		Conversational: true,
	})
	if err != nil {
		logger.Get().Warn("Chat reply failed, user turn left unanswered",
			zap.String("session_id", sess.ID),
			zap.Int("turns", sess.Conversation.Len()),
			zap.Error(err))
		return domain.Turn{}, asGatewayFailure(err)
	}

	turn := sess.Conversation.Append(domain.RoleModel, reply)
	logger.Get().Info("Chat reply appended",
		zap.String("session_id", sess.ID),
		zap.Int("turns", sess.Conversation.Len()))
	return turn, nil
}

func (s *chatService) History(sess *session.Session) []domain.Turn {
	return sess.Conversation.History()
}

func (s *chatService) Clear(sess *session.Session) {
	sess.Conversation.Reset()
	logger.Get().Info("Chat history cleared", zap.String("session_id", sess.ID))
}

// asGatewayFailure keeps domain errors as they are and wraps anything else.
func asGatewayFailure(err error) error {
	if _, ok := err.(*domain.DomainError); ok {
		return err
	}
	return domain.NewGatewayFailure(err)
}
