package ws

import (
	"encoding/json"
	"sync"

	"go-pos-backend/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Hub fans committed stock changes out to connected POS clients so registers
// can refresh availability without polling.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

// StockUpdateEvent is the wire payload for a broadcast. One event per ledger
// entry, emitted only after the owning storage transaction commits.
type StockUpdateEvent struct {
	Type      string     `json:"type"`
	Action    string     `json:"action"` // "sale" or "adjustment"
	ProductID uuid.UUID  `json:"product_id"`
	ChangeQty int        `json:"change_qty"`
	NewQty    int        `json:"new_qty"`
	Reason    string     `json:"reason"`
	RefID     *uuid.UUID `json:"ref_id,omitempty"`
	ActorID   string     `json:"actor_id"`
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

// BroadcastStockUpdate marshals and queues an event without blocking the
// caller's request path.
func (h *Hub) BroadcastStockUpdate(event StockUpdateEvent) {
	event.Type = "stock_update"
	msg, err := json.Marshal(event)
	if err != nil {
		return
	}
	go func() {
		h.Broadcast <- msg
	}()
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			logger.Logger.Debug().Msg("pos client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
