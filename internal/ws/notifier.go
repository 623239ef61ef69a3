package ws

import (
	"encoding/json"
	"log"

	"github.com/gogo-cafe/api/internal/enum"
	"github.com/gogo-cafe/api/internal/order"
)

// Notifier pushes order events to the staff room and to the owning
// customer's room.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) OrderPlaced(o order.Order) {
	n.publish(enum.EventOrderCreated, o)
}

func (n *Notifier) OrderTransitioned(before, after order.Order) {
	n.publish(enum.EventOrderUpdated, after)
}

func (n *Notifier) publish(eventType string, o order.Order) {
	payload, err := json.Marshal(o)
	if err != nil {
		log.Printf("ERROR: marshal order %s for ws: %v", o.ID, err)
		return
	}
	event := Event{Type: eventType, Payload: payload}
	n.hub.Broadcast(StaffRoom, event)
	if o.Customer.ID != "" {
		n.hub.Broadcast(CustomerRoom(o.Customer.ID), event)
	}
}
