package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
)

const broadcastBuffer = 64

const (
	ActionItemAdded   = "item_added"
	ActionItemRemoved = "item_removed"
)

// InventoryEvent is pushed to every connected client after a successful add or remove.
type InventoryEvent struct {
	Type            string `json:"type"`
	Action          string `json:"action"`
	InvoiceID       string `json:"invoice_id"`
	ProductCategory string `json:"product_category"`
	Timestamp       string `json:"timestamp"`
	Message         string `json:"message"`
}

type Hub struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	mutex      sync.Mutex
	log        logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, broadcastBuffer),
		log:        log,
	}
}

// Run serves register/unregister/broadcast until ctx is done, then closes all clients.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug("WS client connected")

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish queues an event for broadcast. It never blocks; a full buffer drops the event.
func (h *Hub) Publish(event InventoryEvent) {
	event.Type = "inventory_update"
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).Error("WS event marshal failed")
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		h.log.WithField("invoice_id", event.InvoiceID).Warn("WS broadcast buffer full, event dropped")
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Handler keeps a client registered until it disconnects or the hub stops.
func (h *Hub) Handler(ctx context.Context) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		select {
		case h.register <- c:
		case <-ctx.Done():
			return
		}
		defer func() {
			select {
			case h.unregister <- c:
			case <-ctx.Done():
			}
		}()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}
}
