package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

// Event is the envelope pushed to every connected client when the ledger or
// the payment book changes.
type Event struct {
	Type      string                 `json:"type"`
	Action    string                 `json:"action"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

// broadcastBuffer bounds how many events can sit unread before the hub drains
// them. Events past that are dropped, never queued in a goroutine.
const broadcastBuffer = 256

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, broadcastBuffer),
	}
}

// BroadcastEvent marshals and queues an event without blocking the caller.
// Events are advisory; when the buffer is full the event is dropped and
// logged rather than stalling a ledger write.
func (h *Hub) BroadcastEvent(eventType, action string, payload map[string]interface{}) {
	event := Event{
		Type:      eventType,
		Action:    action,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: failed to marshal %s event: %v", action, err)
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		log.Printf("ws: broadcast buffer full, dropping %s event", action)
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Println("New WS client connected")

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
