package proto

import (
	"encoding/json"
	"time"
)

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound frame types.
const (
	InboundTypeJoin        = "join"
	InboundTypeSend        = "send"
	InboundTypePrivateSend = "private_send"
	InboundTypeGetHistory  = "get_history"
	InboundTypeReact       = "react"
	InboundTypeRead        = "read"
	InboundTypeTyping      = "typing"
)

// Outbound frame types.
const (
	OutboundTypeWelcome        = "welcome"
	OutboundTypeUserList       = "user_list"
	OutboundTypeUserJoined     = "user_joined"
	OutboundTypeUserLeft       = "user_left"
	OutboundTypeMessage        = "message"
	OutboundTypePrivateMessage = "private_message"
	OutboundTypeHistory        = "history"
	OutboundTypeReactionAdded  = "reaction_added"
	OutboundTypeMessageRead    = "message_read"
	OutboundTypeTypingUsers    = "typing_users"
	OutboundTypeError          = "error"
)

// JoinData binds the connection to a username and room. Room falls back to
// the server's default room when empty.
type JoinData struct {
	Username string `json:"username"`
	Room     string `json:"room,omitempty"`
}

// SendData is a broadcast message for the sender's current room.
type SendData struct {
	Text string `json:"text"`
}

// PrivateSendData is a direct message addressed by connection id.
type PrivateSendData struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// GetHistoryData requests a page of retained room messages.
type GetHistoryData struct {
	Room  string `json:"room"`
	Skip  int    `json:"skip,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// ReactData appends an emoji reaction to a message.
type ReactData struct {
	MessageID int64  `json:"message_id"`
	Emoji     string `json:"emoji"`
	Username  string `json:"username"`
}

// ReadData marks a message read by an opaque user identifier.
type ReadData struct {
	MessageID int64  `json:"message_id"`
	UserID    string `json:"user_id"`
}

// TypingData sets or clears the sender's typing flag.
type TypingData struct {
	IsTyping bool `json:"is_typing"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// WelcomeData announces the connection id assigned at accept time. Clients
// need it to address private messages and read markers.
type WelcomeData struct {
	ConnectionID string `json:"connection_id"`
}

// User identifies a room member.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UserListData carries the full membership of a room.
type UserListData struct {
	Room  string `json:"room"`
	Users []User `json:"users"`
}

// UserJoinedData notifies that a user joined a room.
type UserJoinedData struct {
	Room     string `json:"room"`
	Username string `json:"username"`
	ID       string `json:"id"`
}

// UserLeftData notifies that a user left a room.
type UserLeftData struct {
	Room     string `json:"room"`
	Username string `json:"username"`
	ID       string `json:"id"`
}

// ReactionData is one reaction entry on a message.
type ReactionData struct {
	Emoji    string `json:"emoji"`
	Username string `json:"username"`
}

// MessageData is a chat message on the wire, broadcast or private.
type MessageData struct {
	ID        int64          `json:"id"`
	Room      string         `json:"room,omitempty"`
	Sender    string         `json:"sender"`
	SenderID  string         `json:"sender_id"`
	Text      string         `json:"text"`
	Timestamp time.Time      `json:"timestamp"`
	IsPrivate bool           `json:"is_private,omitempty"`
	To        string         `json:"to,omitempty"`
	Reactions []ReactionData `json:"reactions,omitempty"`
	ReadBy    []string       `json:"read_by,omitempty"`
}

// HistoryData is a page of retained messages in chronological order.
type HistoryData struct {
	Room     string        `json:"room"`
	Messages []MessageData `json:"messages"`
}

// ReactionAddedData notifies a room about a new reaction.
type ReactionAddedData struct {
	MessageID int64  `json:"message_id"`
	Emoji     string `json:"emoji"`
	Username  string `json:"username"`
}

// MessageReadData notifies a room about a new read marker.
type MessageReadData struct {
	MessageID int64  `json:"message_id"`
	UserID    string `json:"user_id"`
}

// TypingUsersData carries the usernames currently typing in a room.
type TypingUsersData struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
