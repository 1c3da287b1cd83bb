package checkout

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// StatusEvent is pushed to websocket subscribers watching an order.
type StatusEvent struct {
	Event     string `json:"event"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id,omitempty"`
}

// subscriber serializes all writes to one connection. gorilla/websocket
// allows at most one concurrent writer, and capture events and keep-alive
// pings arrive from different goroutines.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) writeJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *subscriber) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.PingMessage, nil)
}

// Hub tracks websocket subscribers keyed by order id so the webhook path
// can push capture events to a waiting checkout page.
type Hub struct {
	connections map[string]*subscriber
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*subscriber),
	}
}

func (h *Hub) Register(orderID string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.connections[orderID]; exists && old != nil {
		_ = old.conn.Close()
	}

	h.connections[orderID] = &subscriber{conn: conn}
}

func (h *Hub) Unregister(orderID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if sub, exists := h.connections[orderID]; exists && sub != nil {
		_ = sub.conn.Close()
		delete(h.connections, orderID)
	}
}

func (h *Hub) get(orderID string) *subscriber {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.connections[orderID]
}

func (h *Hub) send(orderID string, event StatusEvent) bool {
	sub := h.get(orderID)
	if sub == nil {
		return false
	}

	if err := sub.writeJSON(event); err != nil {
		h.Unregister(orderID)
		return false
	}

	return true
}

// PublishCaptured notifies the subscriber for orderID that the gateway
// confirmed the payment. No subscriber is fine; the event is dropped.
func (h *Hub) PublishCaptured(orderID, paymentID string) {
	h.send(orderID, StatusEvent{
		Event:     "payment.captured",
		OrderID:   orderID,
		PaymentID: paymentID,
	})
}

// Ping sends a keep-alive frame. An error means the subscription is gone
// and the caller's ping loop should stop.
func (h *Hub) Ping(orderID string) error {
	sub := h.get(orderID)
	if sub == nil {
		return fmt.Errorf("no subscriber for order %s", orderID)
	}

	if err := sub.ping(); err != nil {
		h.Unregister(orderID)
		return err
	}
	return nil
}

func (h *Hub) IsSubscribed(orderID string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.connections[orderID]
	return exists
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for orderID, sub := range h.connections {
		if sub != nil {
			_ = sub.conn.Close()
		}
		delete(h.connections, orderID)
	}
}
