// Package ws is the optional push channel beside the polling baseline:
// dashboards that hold a connection get refresh hints early, everyone
// else keeps their polling cadence. Nothing reads hub state back.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/dineflow-pos/api/internal/enum"
)

// Event is a refresh hint pushed to subscribed dashboards.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// roleEvent routes an event to one role's room.
type roleEvent struct {
	Role  string
	Event Event
}

// Hub maintains the set of active clients, one room per role.
type Hub struct {
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *roleEvent

	mu sync.RWMutex
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roleEvent, 256),
	}
}

// Run starts the hub's main loop.
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.role] == nil {
				h.rooms[client.role] = make(map[*Client]bool)
			}
			h.rooms[client.role][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.role]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.role)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[event.Role]

			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full: drop the client, it will reconnect.
					close(client.send)
					delete(h.rooms[event.Role], client)
					if len(h.rooms[event.Role]) == 0 {
						delete(h.rooms, event.Role)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRole sends an event to every client in one role's room.
func (h *Hub) BroadcastToRole(role string, event Event) {
	h.broadcast <- &roleEvent{Role: role, Event: event}
}

type orderPayload struct {
	OrderID int64 `json:"order_id"`
}

// OrderUpdated hints the kitchen and floor dashboards that an order's
// line items changed. Implements handler.Notifier.
func (h *Hub) OrderUpdated(orderID int64) {
	h.fanOut("order.updated", orderID, enum.RoleWaiter, enum.RoleChef, enum.RoleAdmin)
}

// PaymentUpdated hints the floor and cashier dashboards that a payment
// was opened or settled. Implements handler.Notifier.
func (h *Hub) PaymentUpdated(orderID int64) {
	h.fanOut("payment.updated", orderID, enum.RoleWaiter, enum.RoleCashier, enum.RoleAdmin)
}

func (h *Hub) fanOut(eventType string, orderID int64, roles ...string) {
	payload, err := json.Marshal(orderPayload{OrderID: orderID})
	if err != nil {
		return
	}
	for _, role := range roles {
		h.BroadcastToRole(role, Event{Type: eventType, Payload: payload})
	}
}
