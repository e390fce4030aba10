package overlay

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store for development and tests. Entries
// never expire; sessions are short-lived enough that this is acceptable
// outside production.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]map[string]Entry)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID, pendencyID string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[sessionID][pendencyID]
	return e, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID, pendencyID string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions[sessionID] == nil {
		s.sessions[sessionID] = make(map[string]Entry)
	}
	s.sessions[sessionID][pendencyID] = e
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID, pendencyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions[sessionID], pendencyID)
	return nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}
