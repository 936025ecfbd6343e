package core

// Client is a connected transport session as seen by the core layer. The
// client itself carries no identity; username and room live in the registry
// and are bound on join.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	// closed by the hub on disconnect; stops the command pump.
	done chan struct{}
}

// NewClient constructs a client with buffered command/event channels.
func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 8
	}
	return &Client{
		ID:       id,
		Commands: make(chan *Command, buffer),
		Events:   make(chan *Event, buffer),
		done:     make(chan struct{}),
	}
}
