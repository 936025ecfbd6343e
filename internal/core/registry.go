package core

import "github.com/samber/lo"

// Binding is the identity a connection carries while registered: who the
// user claims to be and which room they are in. Usernames are self-asserted
// and not unique.
type Binding struct {
	ConnID   string
	Username string
	Room     string
}

// Registry maps active connection ids to their bindings. A registered
// connection id maps to exactly one (username, room) pair at a time. Rooms
// are not stored entities; membership is always derived from the bindings.
//
// Not safe for concurrent use; owned by the hub loop.
type Registry struct {
	byID  map[string]*Binding
	order []string // connection ids in first-registration order
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Binding)}
}

// Register binds a connection to (username, room), overwriting any prior
// binding for the same id. Rebinding keeps the original insertion position.
func (r *Registry) Register(connID, username, room string) {
	if b, ok := r.byID[connID]; ok {
		b.Username = username
		b.Room = room
		return
	}
	r.byID[connID] = &Binding{ConnID: connID, Username: username, Room: room}
	r.order = append(r.order, connID)
}

// Unregister removes the binding. No-op when absent.
func (r *Registry) Unregister(connID string) {
	if _, ok := r.byID[connID]; !ok {
		return
	}
	delete(r.byID, connID)
	r.order = lo.Without(r.order, connID)
}

// Lookup returns the binding for a connection id.
func (r *Registry) Lookup(connID string) (Binding, bool) {
	b, ok := r.byID[connID]
	if !ok {
		return Binding{}, false
	}
	return *b, true
}

// ListByRoom returns the bindings whose room matches, in registration order.
// This is the derived room membership view: no room exists apart from it.
func (r *Registry) ListByRoom(room string) []Binding {
	return lo.FilterMap(r.order, func(id string, _ int) (Binding, bool) {
		b, ok := r.byID[id]
		if !ok || b.Room != room {
			return Binding{}, false
		}
		return *b, true
	})
}

// Rooms returns the set of room names with at least one member, in first
// occurrence order.
func (r *Registry) Rooms() []string {
	rooms := lo.FilterMap(r.order, func(id string, _ int) (string, bool) {
		b, ok := r.byID[id]
		if !ok {
			return "", false
		}
		return b.Room, true
	})
	return lo.Uniq(rooms)
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	return len(r.byID)
}
