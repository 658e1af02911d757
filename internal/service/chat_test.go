package service

import (
	"context"
	"errors"
	"testing"

	"gemini-multitool/internal/domain"
	"gemini-multitool/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestChatService_SendAppendsBothTurns(t *testing.T) {
	gw := new(MockModelGateway)
	svc := NewChatService(gw)
	sess := session.New("s1")
	ctx := context.Background()

	gw.On("Generate", ctx, domain.GenerateRequest{
		Prompt:         "Hello",
		History:        []domain.Turn{},
		Conversational: true,
	}).Return("Hi! How can I help?", nil).Once()

	turn, err := svc.Send(ctx, sess, "Hello")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModel, turn.Role)
	assert.Equal(t, "Hi! How can I help?", turn.Content)

	history := svc.History(sess)
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "Hello", history[0].Content)
	assert.Equal(t, domain.RoleModel, history[1].Role)
	gw.AssertExpectations(t)
}

func TestChatService_SendReplaysPriorTurns(t *testing.T) {
	gw := new(MockModelGateway)
	svc := NewChatService(gw)
	sess := session.New("s1")
	ctx := context.Background()

	gw.On("Generate", ctx, mock.MatchedBy(func(req domain.GenerateRequest) bool {
		return req.Prompt == "first"
	})).Return("reply one", nil).Once()
	gw.On("Generate", ctx, mock.MatchedBy(func(req domain.GenerateRequest) bool {
		return req.Prompt == "second" &&
			req.Conversational &&
			!req.Structured &&
			len(req.History) == 2 &&
			req.History[0].Content == "first" &&
			req.History[1].Content == "reply one"
	})).Return("reply two", nil).Once()

	_, err := svc.Send(ctx, sess, "first")
	require.NoError(t, err)
	_, err = svc.Send(ctx, sess, "second")
	require.NoError(t, err)

	assert.Equal(t, 4, sess.Conversation.Len())
	gw.AssertExpectations(t)
}

func TestChatService_GatewayFailureKeepsUserTurnOnly(t *testing.T) {
	gw := new(MockModelGateway)
	svc := NewChatService(gw)
	sess := session.New("s1")
	ctx := context.Background()

	gw.On("Generate", ctx, mock.Anything).
		Return("", domain.NewGatewayFailure(errors.New("503 from upstream"))).Once()

	_, err := svc.Send(ctx, sess, "Are you there?")
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeGatewayFailure))

	history := svc.History(sess)
	require.Len(t, history, 1)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "Are you there?", history[0].Content)
}

func TestChatService_PlainErrorIsWrapped(t *testing.T) {
	gw := new(MockModelGateway)
	svc := NewChatService(gw)
	sess := session.New("s1")

	gw.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("boom")).Once()

	_, err := svc.Send(context.Background(), sess, "hi")
	assert.True(t, domain.HasCode(err, domain.CodeGatewayFailure))
}

func TestChatService_EmptyMessageRejected(t *testing.T) {
	gw := new(MockModelGateway)
	svc := NewChatService(gw)
	sess := session.New("s1")

	_, err := svc.Send(context.Background(), sess, "   ")
	assert.True(t, domain.HasCode(err, domain.CodeInvalidInput))
	assert.Equal(t, 0, sess.Conversation.Len())
	gw.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestChatService_Clear(t *testing.T) {
	svc := NewChatService(new(MockModelGateway))
	sess := session.New("s1")
	sess.Conversation.Append(domain.RoleUser, "a")

	svc.Clear(sess)
	svc.Clear(sess)
	assert.Empty(t, svc.History(sess))
}
