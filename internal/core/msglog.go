package core

// MessageLog is a bounded, append-only, id-ordered store of broadcast
// messages. When an append pushes the size past the cap, the single oldest
// entry is evicted (creation order, never access order). Private messages
// are never appended.
//
// Not safe for concurrent use; owned by the hub loop.
type MessageLog struct {
	cap     int
	entries []*Message
}

// DefaultHistoryCap bounds the log when no explicit cap is configured.
const DefaultHistoryCap = 100

// NewMessageLog constructs a log bounded at cap entries.
func NewMessageLog(cap int) *MessageLog {
	if cap <= 0 {
		cap = DefaultHistoryCap
	}
	return &MessageLog{cap: cap}
}

// Append inserts the message at the end of the sequence, evicting the oldest
// entry when the cap is exceeded.
func (l *MessageLog) Append(m *Message) {
	l.entries = append(l.entries, m)
	if len(l.entries) > l.cap {
		// Shift rather than reslice so evicted messages are collectable.
		copy(l.entries, l.entries[1:])
		l.entries[len(l.entries)-1] = nil
		l.entries = l.entries[:len(l.entries)-1]
	}
}

// FindByID returns the retained message with the given id. Linear scan; the
// log never holds more than cap entries.
func (l *MessageLog) FindByID(id int64) (*Message, bool) {
	for _, m := range l.entries {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// FilterByRoom returns all retained messages for the room in ascending
// creation order.
func (l *MessageLog) FilterByRoom(room string) []*Message {
	var out []*Message
	for _, m := range l.entries {
		if m.Room == room {
			out = append(out, m)
		}
	}
	return out
}

// AddReaction appends a reaction to the message's reaction sequence and
// returns the message it landed on. Unknown ids are a silent no-op.
// Duplicate (emoji, username) pairs are kept; reactions are not deduplicated.
func (l *MessageLog) AddReaction(id int64, emoji, username string) (*Message, bool) {
	m, ok := l.FindByID(id)
	if !ok {
		return nil, false
	}
	m.Reactions = append(m.Reactions, Reaction{Emoji: emoji, Username: username})
	return m, true
}

// MarkRead adds userID to the message's read set. Returns false both for
// unknown ids and when the marker was already present, so callers can
// suppress the event in either case.
func (l *MessageLog) MarkRead(id int64, userID string) (*Message, bool) {
	m, ok := l.FindByID(id)
	if !ok {
		return nil, false
	}
	for _, r := range m.ReadBy {
		if r == userID {
			return m, false
		}
	}
	m.ReadBy = append(m.ReadBy, userID)
	return m, true
}

// Len returns the number of retained messages.
func (l *MessageLog) Len() int {
	return len(l.entries)
}
