package core

import "github.com/samber/lo"

// TypingTracker keeps the per-connection "currently composing" flags. An
// entry exists only while the flag is true; stopping removes it entirely.
//
// Not safe for concurrent use; owned by the hub loop.
type TypingTracker struct {
	byConn map[string]string // connection id -> username
}

// NewTypingTracker constructs an empty tracker.
func NewTypingTracker() *TypingTracker {
	return &TypingTracker{byConn: make(map[string]string)}
}

// Set records or clears the typing flag for a connection.
func (t *TypingTracker) Set(connID, username string, isTyping bool) {
	if isTyping {
		t.byConn[connID] = username
		return
	}
	delete(t.byConn, connID)
}

// Clear unconditionally removes the entry. Disconnect path; idempotent.
func (t *TypingTracker) Clear(connID string) {
	delete(t.byConn, connID)
}

// Active returns the usernames currently typing in the room. Membership is
// cross-referenced against the registry so departed connections never leak
// into the list, and iteration follows registration order so the snapshot is
// deterministic.
func (t *TypingTracker) Active(room string, reg *Registry) []string {
	return lo.FilterMap(reg.ListByRoom(room), func(b Binding, _ int) (string, bool) {
		name, ok := t.byConn[b.ConnID]
		return name, ok
	})
}
