package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// client is one websocket connection. Writes are serialized by writeMu;
// the connection's read loop is the only reader.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) send(msg ServerMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

func (c *client) close() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(time.Second))
	c.conn.Close()
}

// room holds the connections watching one game. mu is held across a whole
// command (load, validate, apply, persist, broadcast) so commands on the same
// game never interleave.
type room struct {
	id      int
	mu      sync.Mutex
	members map[*client]string // client -> username

	refs int // commands holding the room; guarded by roomSet.mu
}

// broadcast sends msg to every member except skip (which may be nil).
// Members whose write fails are dropped. Callers hold r.mu.
func (r *room) broadcast(msg ServerMessage, skip *client) {
	for c := range r.members {
		if c == skip {
			continue
		}
		if err := c.send(msg); err != nil {
			delete(r.members, c)
		}
	}
}

func (r *room) empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members) == 0
}

// roomSet owns the live rooms. A room exists while a command holds it or it
// has members; idle rooms are dropped. Lock order is roomSet.mu, then room.mu.
type roomSet struct {
	mu      sync.Mutex
	rooms   map[int]*room
	clients map[*client]struct{}
}

func newRoomSet() *roomSet {
	return &roomSet{
		rooms:   make(map[int]*room),
		clients: make(map[*client]struct{}),
	}
}

// acquire returns the room for a game id, creating it on first use. Every
// acquire must be paired with release once the caller has unlocked the room.
func (rs *roomSet) acquire(id int) *room {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	r, ok := rs.rooms[id]
	if !ok {
		r = &room{id: id, members: make(map[*client]string)}
		rs.rooms[id] = r
	}
	r.refs++
	return r
}

func (rs *roomSet) release(r *room) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	r.refs--
	rs.pruneLocked(r)
}

// pruneLocked drops r when nothing holds it and nobody is watching.
// Callers hold rs.mu.
func (rs *roomSet) pruneLocked(r *room) {
	if r.refs == 0 && rs.rooms[r.id] == r && r.empty() {
		delete(rs.rooms, r.id)
	}
}

// count reports the number of live rooms.
func (rs *roomSet) count() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.rooms)
}

func (rs *roomSet) snapshot() []*room {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]*room, 0, len(rs.rooms))
	for _, r := range rs.rooms {
		out = append(out, r)
	}
	return out
}

func (rs *roomSet) register(c *client) {
	rs.mu.Lock()
	rs.clients[c] = struct{}{}
	rs.mu.Unlock()
}

// unregister drops c from the registry and from every room.
func (rs *roomSet) unregister(c *client) {
	rs.mu.Lock()
	delete(rs.clients, c)
	rs.mu.Unlock()

	for _, r := range rs.snapshot() {
		r.mu.Lock()
		delete(r.members, c)
		r.mu.Unlock()

		rs.mu.Lock()
		rs.pruneLocked(r)
		rs.mu.Unlock()
	}
}

// reset forgets every room membership, keeping connections open. Used after
// the store is cleared; clients reconnect with CONNECT.
func (rs *roomSet) reset() {
	for _, r := range rs.snapshot() {
		r.mu.Lock()
		r.members = make(map[*client]string)
		r.mu.Unlock()

		rs.mu.Lock()
		rs.pruneLocked(r)
		rs.mu.Unlock()
	}
}

func (rs *roomSet) closeAll() {
	rs.mu.Lock()
	clients := make([]*client, 0, len(rs.clients))
	for c := range rs.clients {
		clients = append(clients, c)
	}
	rs.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}
