// Package session holds the per-user state of the application: one
// conversation and one quiz, created empty for each browser session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gemini-multitool/internal/conversation"
	"gemini-multitool/internal/quiz"
)

// ErrNotFound is returned by stores for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Session is the state owned by one user session.
type Session struct {
	ID           string                `json:"id"`
	CreatedAt    time.Time             `json:"created_at"`
	Conversation *conversation.Manager `json:"conversation"`
	Quiz         *quiz.Session         `json:"quiz"`
}

// New returns an empty session: no turns, no quiz.
func New(id string) *Session {
	return &Session{
		ID:           id,
		CreatedAt:    time.Now(),
		Conversation: conversation.NewManager(),
		Quiz:         quiz.NewSession(),
	}
}

// Clone returns a deep copy, so a stored session is never shared with a handler.
func (s *Session) Clone() (*Session, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func decode(data []byte) (*Session, error) {
	out := &Session{
		Conversation: conversation.NewManager(),
		Quiz:         quiz.NewSession(),
	}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Store keeps sessions between requests.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	// Touch restarts the session's TTL without rewriting it.
	Touch(ctx context.Context, id string) error
}
