package ws

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// event is the frame every push uses on the wire.
type event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// client carries the connection's identity and serializes its writes: the
// websocket library allows at most one concurrent writer per connection, so
// every push goes through the client's mutex.
type client struct {
	userID  uint
	isAdmin bool
	mu      sync.Mutex
}

// Hub is a registry of live websocket connections. A user holds at most one
// connection per hub: registering a second one closes the first
// (last-writer-wins). Admin connections are additionally tracked so events
// can fan out to all of them.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]*client
	users map[uint]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]*client),
		users: make(map[uint]*websocket.Conn),
	}
}

// Register attaches the connection to the user. An existing connection for
// the same user is closed and replaced.
func (h *Hub) Register(conn *websocket.Conn, userID uint, isAdmin bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.users[userID]; ok && old != conn {
		delete(h.conns, old)
		old.Close()
	}

	h.conns[conn] = &client{userID: userID, isAdmin: isAdmin}
	h.users[userID] = conn
}

// Unregister drops the connection. A connection already replaced by a newer
// one for the same user leaves the newer mapping intact.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.conns[conn]
	if !ok {
		return
	}
	delete(h.conns, conn)
	if h.users[c.userID] == conn {
		delete(h.users, c.userID)
	}
	conn.Close()
}

// Broadcast pushes the event to every live connection. Write failures are
// logged per connection and do not stop the loop.
func (h *Hub) Broadcast(eventName string, payload interface{}) {
	frame := event{Event: eventName, Payload: payload}

	for conn, c := range h.snapshot() {
		if err := c.write(conn, frame); err != nil {
			log.Printf("broadcast %s to user %d: %v", eventName, c.userID, err)
		}
	}
}

// EmitToUser pushes the event to the user's live connection, if any.
func (h *Hub) EmitToUser(userID uint, eventName string, payload interface{}) error {
	h.mu.RLock()
	conn, ok := h.users[userID]
	var c *client
	if ok {
		c = h.conns[conn]
	}
	h.mu.RUnlock()
	if !ok || c == nil {
		return errors.Errorf("user %d is not connected", userID)
	}
	return c.write(conn, event{Event: eventName, Payload: payload})
}

// EmitToAdmins pushes the event to every connected admin.
func (h *Hub) EmitToAdmins(eventName string, payload interface{}) {
	frame := event{Event: eventName, Payload: payload}

	for conn, c := range h.snapshot() {
		if !c.isAdmin {
			continue
		}
		if err := c.write(conn, frame); err != nil {
			log.Printf("emit %s to admin %d: %v", eventName, c.userID, err)
		}
	}
}

// IsOnline reports whether the user currently holds a connection.
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.users[userID]
	return ok
}

// snapshot copies the registry so writes happen outside the hub lock.
func (h *Hub) snapshot() map[*websocket.Conn]*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conns := make(map[*websocket.Conn]*client, len(h.conns))
	for conn, c := range h.conns {
		conns[conn] = c
	}
	return conns
}

func (c *client) write(conn *websocket.Conn, frame event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return conn.WriteJSON(frame)
}
