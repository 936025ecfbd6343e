package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventWelcome tells a freshly accepted connection its assigned id.
	EventWelcome EventKind = iota
	// EventUserList carries the current membership of a room.
	EventUserList
	// EventUserJoined notifies a room that a user joined it.
	EventUserJoined
	// EventUserLeft notifies a room that a user left it.
	EventUserLeft
	// EventMessage carries a broadcast room message.
	EventMessage
	// EventPrivateMessage carries a transient direct message.
	EventPrivateMessage
	// EventHistory delivers a page of retained messages to one client.
	EventHistory
	// EventReactionAdded notifies a room about a new reaction.
	EventReactionAdded
	// EventMessageRead notifies a room about a new read marker.
	EventMessageRead
	// EventTypingUsers carries the recomputed typing list for a room.
	EventTypingUsers
	// EventError reports a protocol-level problem back to one client.
	EventError
)

// RoomUser identifies a room member in user list events.
type RoomUser struct {
	ConnID   string
	Username string
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind EventKind

	ConnID   string // Welcome, UserJoined, UserLeft
	Room     string
	Username string // UserJoined, UserLeft

	Users     []RoomUser // UserList
	Message   Message    // Message, PrivateMessage
	Messages  []Message  // History
	MessageID int64      // ReactionAdded, MessageRead
	Emoji     string     // ReactionAdded
	UserID    string     // MessageRead
	Usernames []string   // TypingUsers

	Error *RelayError // Error
}
