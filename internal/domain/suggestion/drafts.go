package suggestion

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// DraftStore stages generated suggestions per work session until the
// user persists or discards them. Sessions never see each other's
// drafts.
type DraftStore struct {
	mu        sync.RWMutex
	bySession map[string][]Suggestion
}

func NewDraftStore() *DraftStore {
	return &DraftStore{bySession: make(map[string][]Suggestion)}
}

// Replace swaps the session's staged drafts for a fresh generation run.
func (s *DraftStore) Replace(sessionID string, drafts []Suggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]Suggestion, len(drafts))
	copy(cp, drafts)
	s.bySession[sessionID] = cp
}

func (s *DraftStore) List(sessionID string) []Suggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	drafts := s.bySession[sessionID]
	cp := make([]Suggestion, len(drafts))
	copy(cp, drafts)
	return cp
}

// Update edits one staged draft in place, matched by its ephemeral id.
func (s *DraftStore) Update(sessionID string, draft Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts := s.bySession[sessionID]
	for i := range drafts {
		if drafts[i].ID == draft.ID {
			drafts[i] = draft
			return nil
		}
	}
	return fmt.Errorf("draft %s not staged", draft.ID)
}

func (s *DraftStore) Remove(sessionID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts := s.bySession[sessionID]
	for i := range drafts {
		if drafts[i].ID == id {
			s.bySession[sessionID] = append(drafts[:i], drafts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("draft %s not staged", id)
}

func (s *DraftStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.bySession, sessionID)
}
