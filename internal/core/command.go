package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin binds the connection to a username and room.
	CommandJoin CommandKind = iota
	// CommandSend broadcasts a message to the sender's room.
	CommandSend
	// CommandSendPrivate delivers a transient message to one connection.
	CommandSendPrivate
	// CommandGetHistory requests a page of retained room messages.
	CommandGetHistory
	// CommandReact appends an emoji reaction to a retained message.
	CommandReact
	// CommandMarkRead records that a user has seen a retained message.
	CommandMarkRead
	// CommandSetTyping sets or clears the connection's typing flag.
	CommandSetTyping
)

// Command represents an action requested by a client. Fields are populated
// per kind; unused fields stay zero.
type Command struct {
	Kind CommandKind

	Username string // Join, React
	Room     string // Join, GetHistory
	Text     string // Send, SendPrivate
	To       string // SendPrivate: recipient connection id

	MessageID int64  // React, MarkRead
	Emoji     string // React
	UserID    string // MarkRead

	IsTyping bool // SetTyping

	Skip  int // GetHistory
	Limit int // GetHistory
}
