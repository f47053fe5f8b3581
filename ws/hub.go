package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub owns the room registry: room id -> set of connected clients. Nothing
// outside this package mutates it; joins, leaves and disconnects are the only
// operations, and broadcasts see a consistent membership snapshot.
type Hub struct {
	mu sync.RWMutex
	// room -> clients
	rooms map[string]map[*Client]bool
	// client -> rooms it joined, for disconnect cleanup
	membership map[*Client]map[string]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		membership: make(map[*Client]map[string]bool),
	}
}

// Join subscribes a client to a room. Idempotent; a client may sit in any
// number of rooms.
func (h *Hub) Join(room string, c *Client) {
	if room == "" || c == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	if h.rooms[room][c] {
		return
	}
	h.rooms[room][c] = true
	if h.membership[c] == nil {
		h.membership[c] = make(map[string]bool)
	}
	h.membership[c][room] = true

	log.Printf("[ws] user %d joined room %q (%d in room)", c.UserID, room, len(h.rooms[room]))
}

// Leave unsubscribes a client from one room.
func (h *Hub) Leave(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveNoLock(room, c)
}

// Disconnect removes the client from every room it joined. No departure
// notification is broadcast.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range h.membership[c] {
		h.leaveNoLock(room, c)
	}
	delete(h.membership, c)
	c.closeSend()
}

func (h *Hub) leaveNoLock(room string, c *Client) {
	clients, ok := h.rooms[room]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.rooms, room)
	}
	if m := h.membership[c]; m != nil {
		delete(m, room)
	}
}

// Broadcast delivers an event to every current member of the room, including
// the sender's own connection.
func (h *Hub) Broadcast(room string, event string, payload any) {
	h.send(room, nil, event, payload)
}

// BroadcastExcept delivers an event to every member of the room except one
// connection (typing signals never echo to their origin).
func (h *Hub) BroadcastExcept(room string, skip *Client, event string, payload any) {
	h.send(room, skip, event, payload)
}

// RoomSize reports current membership; used by tests and the stats surface.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) send(room string, skip *Client, event string, payload any) {
	data, err := marshalEnvelope(event, payload)
	if err != nil {
		log.Printf("[ws] marshal %s: %v", event, err)
		return
	}

	// snapshot membership so the write loop below never holds the lock while
	// a slow client blocks
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		if c != skip {
			members = append(members, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range members {
		if !c.enqueue(data) {
			// client cannot keep up; drop it from everything
			log.Printf("[ws] dropping slow client user=%d", c.UserID)
			h.Disconnect(c)
		}
	}
}

// Envelope is the wire frame for server-to-client events.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func marshalEnvelope(event string, payload any) ([]byte, error) {
	return json.Marshal(Envelope{Event: event, Data: payload})
}
