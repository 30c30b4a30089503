package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/f1-standings/internal/dashboard"
	"github.com/yourusername/f1-standings/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 8
)

// MessageTypeDashboard tags dashboard pushes
const MessageTypeDashboard = "dashboard"

// Message is the envelope written to websocket clients
type Message struct {
	Type string               `json:"type"`
	Data *dashboard.Dashboard `json:"data"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans recomputed dashboards out to connected websocket clients.
// Clients whose send queue is full are dropped.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	latest   []byte
	upgrader websocket.Upgrader
	logger   *logrus.Logger
}

// NewHub creates an empty hub
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger: logger,
	}
}

// Broadcast sends d to every client and keeps it for clients that connect later
func (h *Hub) Broadcast(d *dashboard.Dashboard) error {
	payload, err := json.Marshal(Message{Type: MessageTypeDashboard, Data: d})
	if err != nil {
		return fmt.Errorf("failed to encode dashboard: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = payload
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.logger.WithField("client_id", c.id).Warn("Dropping slow websocket client")
			h.removeLocked(c)
		}
	}
	return nil
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// ServeWS upgrades the request and registers the client. The latest
// dashboard, if any, is queued immediately.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.latest != nil {
		c.send <- h.latest
	}
	count := len(h.clients)
	h.mu.Unlock()

	metrics.UpdateWebsocketClients(count)
	h.logger.WithFields(logrus.Fields{"client_id": c.id, "clients": count}).Info("Websocket client connected")
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		h.removeLocked(c)
	}
	h.mu.Unlock()

	if ok {
		h.logger.WithField("client_id", c.id).Info("Websocket client disconnected")
	}
}

// removeLocked must be called with h.mu held.
func (h *Hub) removeLocked(c *client) {
	delete(h.clients, c)
	close(c.send)
	metrics.UpdateWebsocketClients(len(h.clients))
}

// readPump discards client messages and detects disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).WithField("client_id", c.id).Debug("Websocket read error")
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
