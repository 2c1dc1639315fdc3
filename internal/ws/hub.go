package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans application state out to connected presentation clients.
// The UI never polls: every navigation transition and quiz event is
// pushed through here.
type Hub struct {
	log *zap.Logger

	mu      sync.RWMutex
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		log:        log,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
	}
	go h.run()
	return h
}

// Publish sends an envelope to every connected client.
func (h *Hub) Publish(msgType string, payload interface{}) {
	b, err := json.Marshal(Envelope{Type: msgType, Payload: payload})
	if err != nil {
		h.log.Error("ws publish marshal failed", zap.String("type", msgType), zap.Error(err))
		return
	}
	h.broadcast <- b
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			h.mu.Unlock()

			h.log.Info("ws client registered", zap.String("client_id", c.id))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.send)
			}
			h.mu.Unlock()

			h.log.Info("ws client unregistered", zap.String("client_id", c.id))

		case data := <-h.broadcast:
			h.mu.RLock()
			for _, c := range h.clients {
				select {
				case c.send <- data:
				default:
					h.log.Warn("ws client send buffer full, dropping", zap.String("client_id", c.id))
				}
			}
			h.mu.RUnlock()
		}
	}
}

// ServeWS upgrades the connection and sends hello (the current
// navigation state) so a freshly connected UI can render immediately.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, hello Envelope) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := &Client{
		hub:  h,
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, 64),
	}

	h.register <- client
	go client.writePump()

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(hello); err != nil {
		h.unregister <- client
		_ = conn.Close()
		return
	}

	client.readPump()
}
