package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// StaffRoom receives every order event.
const StaffRoom = "staff"

// CustomerRoom is the room for one customer's own orders.
func CustomerRoom(customerID string) string {
	return "customer:" + customerID
}

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type roomEvent struct {
	Room  string
	Event Event
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	// Registered clients by room
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	broadcast chan *roomEvent

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roomEvent, 256),
	}
}

// Run is the hub's main loop. It returns when ctx is done, closing every
// client's send channel.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for room, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.room] == nil {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event.Event)
			if err != nil {
				log.Printf("ERROR: marshal ws event %s: %v", event.Event.Type, err)
				continue
			}

			h.mu.Lock()
			for client := range h.rooms[event.Room] {
				select {
				case client.send <- message:
				default:
					// Slow consumer: drop it rather than stall the room.
					h.removeLocked(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// removeLocked must be called with mu held.
func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.rooms[client.room]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.room)
	}
}

// Broadcast queues event for every client in room. It never blocks; when the
// queue is full the event is dropped and logged.
func (h *Hub) Broadcast(room string, event Event) {
	select {
	case h.broadcast <- &roomEvent{Room: room, Event: event}:
	default:
		log.Printf("ERROR: ws broadcast queue full, dropping %s for %s", event.Type, room)
	}
}

// ClientCount returns the number of clients in room.
func (h *Hub) ClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
