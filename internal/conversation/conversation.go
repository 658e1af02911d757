// Package conversation keeps the ordered turn log of one chat session.
package conversation

import (
	"encoding/json"
	"time"

	"gemini-multitool/internal/domain"
)

// Manager is an append-only, insertion-ordered log of turns.
// It has no size bound; Reset is the only way turns leave the log.
type Manager struct {
	turns []domain.Turn
	now   func() time.Time
}

// NewManager creates an empty conversation.
func NewManager() *Manager {
	return &Manager{now: time.Now}
}

// Append adds one turn at the end of the log.
func (m *Manager) Append(role domain.Role, content string) domain.Turn {
	turn := domain.Turn{
		Role:      role,
		Content:   content,
		CreatedAt: m.clock()(),
	}
	m.turns = append(m.turns, turn)
	return turn
}

// History returns a snapshot of the log. Mutating it does not affect the manager.
func (m *Manager) History() []domain.Turn {
	out := make([]domain.Turn, len(m.turns))
	copy(out, m.turns)
	return out
}

// Len returns the number of turns in the log.
func (m *Manager) Len() int {
	return len(m.turns)
}

// Reset drops every turn.
func (m *Manager) Reset() {
	m.turns = nil
}

func (m *Manager) clock() func() time.Time {
	if m.now == nil {
		return time.Now
	}
	return m.now
}

func (m *Manager) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Turns []domain.Turn `json:"turns"`
	}{Turns: m.History()})
}

func (m *Manager) UnmarshalJSON(data []byte) error {
	var payload struct {
		Turns []domain.Turn `json:"turns"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	m.turns = payload.Turns
	return nil
}
