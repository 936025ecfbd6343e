package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Options tune the hub's stores and defaults.
type Options struct {
	// DefaultRoom is used when a join carries no room name.
	DefaultRoom string
	// HistoryCap bounds the message log.
	HistoryCap int
	// PageLimit is the history page size when a request carries none.
	PageLimit int
}

// DefaultRoom is the well-known room joined when none is named.
const DefaultRoom = "general"

// DefaultPageLimit is the history page size when a request carries none.
const DefaultPageLimit = 10

type inbound struct {
	client *Client
	cmd    *Command
}

type query struct {
	fn   func()
	done chan struct{}
}

// Hub is the event router: it owns the connection registry, the message log
// and the typing tracker, and serializes every mutation through a single
// Run goroutine. Connections move Unjoined -> Joined (first successful join)
// -> Disconnected (terminal); "Joined" is exactly "has a registry binding".
type Hub struct {
	opts Options
	log  *zerolog.Logger

	registerCh   chan *Client
	unregisterCh chan *Client
	commands     chan inbound
	queries      chan query

	// Owned by the Run goroutine. Never touched from outside the loop.
	registry *Registry
	messages *MessageLog
	typing   *TypingTracker
	clients  map[string]*Client
	nextID   int64
}

// NewHub constructs a hub. Run must be started before clients register.
func NewHub(opts Options, logger *zerolog.Logger) *Hub {
	if opts.DefaultRoom == "" {
		opts.DefaultRoom = DefaultRoom
	}
	if opts.PageLimit <= 0 {
		opts.PageLimit = DefaultPageLimit
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		opts:         opts,
		log:          logger,
		registerCh:   make(chan *Client),
		unregisterCh: make(chan *Client),
		commands:     make(chan inbound),
		queries:      make(chan query),
		registry:     NewRegistry(),
		messages:     NewMessageLog(opts.HistoryCap),
		typing:       NewTypingTracker(),
		clients:      make(map[string]*Client),
		nextID:       1,
	}
}

// RegisterClient hands a new connection to the hub loop. The hub answers
// with a welcome event carrying the connection id.
func (h *Hub) RegisterClient(c *Client) {
	h.registerCh <- c
}

// UnregisterClient runs the disconnect transition: typing cleared, binding
// removed, room notified. Safe to call more than once and safe to race with
// a late command from the same connection.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregisterCh <- c
}

// Run processes registrations, commands and queries until ctx is cancelled.
// All store mutations happen on this goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.registerCh:
			h.clients[c.ID] = c
			go h.pump(ctx, c)
			h.send(c, &Event{Kind: EventWelcome, ConnID: c.ID})
			h.log.Info().Str("conn_id", c.ID).Msg("connection registered")
		case c := <-h.unregisterCh:
			h.disconnect(c)
		case in := <-h.commands:
			h.dispatch(in.client, in.cmd)
		case q := <-h.queries:
			q.fn()
			close(q.done)
		}
	}
}

// pump forwards a client's commands into the serialized loop. It exits when
// the hub disconnects the client or the loop stops.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case cmd := <-c.Commands:
			select {
			case h.commands <- inbound{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			case <-c.done:
				return
			}
		}
	}
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	// A command can arrive after its connection was torn down; fail closed.
	if _, live := h.clients[c.ID]; !live {
		h.log.Debug().Str("conn_id", c.ID).Msg("command from closed connection dropped")
		return
	}

	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(c, cmd)
	case CommandSend:
		h.handleSend(c, cmd)
	case CommandSendPrivate:
		h.handleSendPrivate(c, cmd)
	case CommandGetHistory:
		h.handleGetHistory(c, cmd)
	case CommandReact:
		h.handleReact(cmd)
	case CommandMarkRead:
		h.handleMarkRead(cmd)
	case CommandSetTyping:
		h.handleSetTyping(c, cmd)
	}
}

func (h *Hub) handleJoin(c *Client, cmd *Command) {
	room := cmd.Room
	if room == "" {
		room = h.opts.DefaultRoom
	}
	h.registry.Register(c.ID, cmd.Username, room)

	h.broadcast(room, &Event{Kind: EventUserList, Room: room, Users: h.roomUsers(room)})
	h.broadcast(room, &Event{Kind: EventUserJoined, Room: room, Username: cmd.Username, ConnID: c.ID})
	h.log.Info().Str("conn_id", c.ID).Str("user", cmd.Username).Str("room", room).Msg("user joined")
}

func (h *Hub) handleSend(c *Client, cmd *Command) {
	b, ok := h.registry.Lookup(c.ID)
	if !ok {
		return // never joined
	}
	m := &Message{
		ID:        h.nextMessageID(),
		Room:      b.Room,
		From:      b.Username,
		SenderID:  c.ID,
		Text:      cmd.Text,
		CreatedAt: time.Now(),
		ReadBy:    []string{c.ID},
	}
	h.messages.Append(m)
	h.broadcast(b.Room, &Event{Kind: EventMessage, Room: b.Room, Message: m.snapshot()})
	h.log.Debug().Int64("msg_id", m.ID).Str("room", b.Room).Str("user", b.Username).Msg("message broadcast")
}

func (h *Hub) handleSendPrivate(c *Client, cmd *Command) {
	b, ok := h.registry.Lookup(c.ID)
	if !ok {
		return
	}
	m := Message{
		ID:        h.nextMessageID(),
		From:      b.Username,
		SenderID:  c.ID,
		Text:      cmd.Text,
		CreatedAt: time.Now(),
		Private:   true,
		To:        cmd.To,
	}
	// Transient: delivered to exactly sender and recipient, never logged.
	ev := &Event{Kind: EventPrivateMessage, Message: m}
	if target, ok := h.clients[cmd.To]; ok && cmd.To != c.ID {
		h.send(target, ev)
	}
	h.send(c, ev)
	h.log.Debug().Str("from", c.ID).Str("to", cmd.To).Msg("private message relayed")
}

func (h *Hub) handleGetHistory(c *Client, cmd *Command) {
	limit := cmd.Limit
	if limit <= 0 {
		limit = h.opts.PageLimit
	}
	skip := cmd.Skip
	if skip < 0 {
		skip = 0
	}
	h.send(c, &Event{
		Kind:     EventHistory,
		Room:     cmd.Room,
		Messages: h.historyPage(cmd.Room, skip, limit),
	})
}

// historyPage selects the page most-recent-first, then reverses it back to
// chronological order for display.
func (h *Hub) historyPage(room string, skip, limit int) []Message {
	asc := h.messages.FilterByRoom(room)

	// FilterByRoom is ascending by id, so walk it backwards for the
	// descending window.
	start := len(asc) - 1 - skip
	page := make([]Message, 0, limit)
	for i := start; i > start-limit && i >= 0; i-- {
		page = append(page, asc[i].snapshot())
	}

	// Reverse to ascending.
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}
	return page
}

func (h *Hub) handleReact(cmd *Command) {
	m, ok := h.messages.AddReaction(cmd.MessageID, cmd.Emoji, cmd.Username)
	if !ok {
		return // unknown id: no state change, no event
	}
	h.broadcast(m.Room, &Event{
		Kind:      EventReactionAdded,
		Room:      m.Room,
		MessageID: m.ID,
		Emoji:     cmd.Emoji,
		Username:  cmd.Username,
	})
}

func (h *Hub) handleMarkRead(cmd *Command) {
	m, ok := h.messages.MarkRead(cmd.MessageID, cmd.UserID)
	if !ok {
		return // unknown id or already marked
	}
	h.broadcast(m.Room, &Event{
		Kind:      EventMessageRead,
		Room:      m.Room,
		MessageID: m.ID,
		UserID:    cmd.UserID,
	})
}

func (h *Hub) handleSetTyping(c *Client, cmd *Command) {
	b, ok := h.registry.Lookup(c.ID)
	if !ok {
		return
	}
	h.typing.Set(c.ID, b.Username, cmd.IsTyping)
	h.broadcast(b.Room, &Event{
		Kind:      EventTypingUsers,
		Room:      b.Room,
		Usernames: h.typing.Active(b.Room, h.registry),
	})
}

// disconnect is the terminal transition. Cleanup is idempotent: a second
// call for the same client finds nothing to do.
func (h *Hub) disconnect(c *Client) {
	if _, live := h.clients[c.ID]; !live {
		return
	}
	delete(h.clients, c.ID)
	close(c.done)

	h.typing.Clear(c.ID)
	b, ok := h.registry.Lookup(c.ID)
	if !ok {
		h.log.Info().Str("conn_id", c.ID).Msg("connection closed before join")
		return
	}
	h.registry.Unregister(c.ID)

	h.broadcast(b.Room, &Event{Kind: EventUserLeft, Room: b.Room, Username: b.Username, ConnID: c.ID})
	h.broadcast(b.Room, &Event{Kind: EventUserList, Room: b.Room, Users: h.roomUsers(b.Room)})
	h.log.Info().Str("conn_id", c.ID).Str("user", b.Username).Str("room", b.Room).Msg("user left")
}

// nextMessageID hands out ids from a monotonic counter so the total order is
// independent of clock resolution and ids never collide.
func (h *Hub) nextMessageID() int64 {
	id := h.nextID
	h.nextID++
	return id
}

func (h *Hub) roomUsers(room string) []RoomUser {
	members := h.registry.ListByRoom(room)
	users := make([]RoomUser, 0, len(members))
	for _, b := range members {
		users = append(users, RoomUser{ConnID: b.ConnID, Username: b.Username})
	}
	return users
}

// broadcast fans an event out to a snapshot of the room's membership taken
// once, not per recipient.
func (h *Hub) broadcast(room string, ev *Event) {
	for _, b := range h.registry.ListByRoom(room) {
		c, ok := h.clients[b.ConnID]
		if !ok {
			continue
		}
		h.send(c, ev)
	}
}

// send never blocks the loop; slow consumers lose events.
func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		h.log.Warn().Str("conn_id", c.ID).Int("kind", int(ev.Kind)).Msg("event dropped, slow consumer")
	}
}

// inspect runs fn on the hub loop and waits for it, giving readers outside
// the loop a consistent view without extra locking.
func (h *Hub) inspect(ctx context.Context, fn func()) error {
	q := query{fn: fn, done: make(chan struct{})}
	select {
	case h.queries <- q:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RoomInfo summarizes a populated room for read-only API consumers.
type RoomInfo struct {
	Name    string
	Members int
}

// Rooms returns the rooms that currently have members.
func (h *Hub) Rooms(ctx context.Context) ([]RoomInfo, error) {
	var out []RoomInfo
	err := h.inspect(ctx, func() {
		for _, name := range h.registry.Rooms() {
			out = append(out, RoomInfo{Name: name, Members: len(h.registry.ListByRoom(name))})
		}
	})
	return out, err
}

// Members returns the current membership of a room.
func (h *Hub) Members(ctx context.Context, room string) ([]RoomUser, error) {
	var out []RoomUser
	err := h.inspect(ctx, func() {
		out = h.roomUsers(room)
	})
	return out, err
}

// History returns a page of retained messages with the same pagination
// semantics as the get_history command.
func (h *Hub) History(ctx context.Context, room string, skip, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = h.opts.PageLimit
	}
	if skip < 0 {
		skip = 0
	}
	var out []Message
	err := h.inspect(ctx, func() {
		out = h.historyPage(room, skip, limit)
	})
	return out, err
}
