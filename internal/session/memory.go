package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
}

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

// NewMemoryStore creates a store whose entries expire ttl after their last save.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if m.ttl > 0 && m.now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	return entry.session.Clone()
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	clone, err := s.Clone()
	if err != nil {
		return err
	}
	now := m.now()
	m.mu.Lock()
	m.sessions[s.ID] = memoryEntry{session: clone, expiresAt: now.Add(m.ttl)}
	m.sweepLocked(now)
	m.mu.Unlock()
	return nil
}

// Touch extends the lifetime of a stored session without rewriting it.
func (m *MemoryStore) Touch(_ context.Context, id string) error {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	entry.expiresAt = now.Add(m.ttl)
	m.sessions[id] = entry
	return nil
}

// sweepLocked drops expired entries, at most twice per TTL. Sessions that are
// never loaded again would otherwise stay in memory. m.mu must be held.
func (m *MemoryStore) sweepLocked(now time.Time) {
	if m.ttl <= 0 || now.Before(m.nextSweep) {
		return
	}
	for id, entry := range m.sessions {
		if now.After(entry.expiresAt) {
			delete(m.sessions, id)
		}
	}
	m.nextSweep = now.Add(m.ttl / 2)
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
