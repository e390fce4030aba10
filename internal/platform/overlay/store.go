// Package overlay holds per-session pendency status overrides. An overlay
// entry shadows the persisted status for one user session only, so a
// clinician can mark a pendency as not done without writing to the record.
package overlay

import (
	"context"
	"time"
)

// Entry is one session-scoped status override.
type Entry struct {
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store keys entries by (sessionID, pendencyID). Get returns ok=false when
// no overlay exists for the pair.
type Store interface {
	Get(ctx context.Context, sessionID, pendencyID string) (Entry, bool, error)
	Set(ctx context.Context, sessionID, pendencyID string, e Entry) error
	Delete(ctx context.Context, sessionID, pendencyID string) error
	// DeleteSession drops every overlay entry belonging to a session.
	DeleteSession(ctx context.Context, sessionID string) error
}
