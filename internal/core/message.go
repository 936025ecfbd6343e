package core

import (
	"slices"
	"time"
)

// Message is the domain model for a chat message. Core fields are immutable
// after creation; Reactions and ReadBy are append-only side-state owned by
// the hub loop.
type Message struct {
	ID        int64
	Room      string // empty for private messages
	From      string
	SenderID  string
	Text      string
	CreatedAt time.Time
	Private   bool
	To        string // recipient connection id, private messages only

	Reactions []Reaction
	ReadBy    []string
}

// Reaction is a single emoji reaction. Repeated identical reactions by the
// same user are kept as separate entries.
type Reaction struct {
	Emoji    string
	Username string
}

// snapshot returns a copy safe to hand outside the hub loop. The side-state
// slices keep growing after emission, so they are cloned.
func (m *Message) snapshot() Message {
	cp := *m
	cp.Reactions = slices.Clone(m.Reactions)
	cp.ReadBy = slices.Clone(m.ReadBy)
	return cp
}
