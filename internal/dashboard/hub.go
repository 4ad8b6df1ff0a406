package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"skywatch/internal/logger"
	"skywatch/internal/models"
)

const (
	// writeTimeout is the deadline for a single write to a client
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong before treating the
	// connection as dead
	pongWait = 60 * time.Second

	// pingPeriod controls how often ping frames are sent. Must be less
	// than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing message buffer depth
	sendBufSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins; apply CORS restrictions at the reverse-proxy level
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LivePayload is the JSON message pushed to every connected viewer when an
// alert is accepted
type LivePayload struct {
	Type      string `json:"type"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// Hub manages WebSocket viewer connections and pushes each alert to all of
// them as it arrives. A viewer that disconnects simply stops receiving;
// missed alerts are not buffered.
type Hub struct {
	log *logger.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// client represents one connected viewer
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		log:     logger.GetGlobalLogger().WithComponent("dashboard"),
		clients: make(map[*client]struct{}),
	}
}

// Run drains the alert queue and broadcasts each alert to every connected
// viewer. Blocks until ctx is cancelled, then closes all connections.
func (h *Hub) Run(ctx context.Context, alerts <-chan models.Alert) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case alert, ok := <-alerts:
			if !ok {
				h.closeAll()
				return
			}
			h.broadcast(alert)
		}
	}
}

// ServeHTTP upgrades the connection to WebSocket and streams alert pushes
// until the viewer disconnects
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
	h.register(c)
	h.log.Debugf("Viewer connected from %s (%d total)", r.RemoteAddr, h.ClientCount())

	go c.writePump()
	c.readPump()
	h.unregister(c)
}

// ClientCount returns the number of currently connected viewers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) broadcast(alert models.Alert) {
	data, err := json.Marshal(LivePayload{
		Type:      string(alert.Type),
		Severity:  alert.Severity.String(),
		Message:   alert.Message,
		CreatedAt: alert.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	// Sends happen under the write lock so a viewer goroutine cannot close
	// its channel mid-broadcast; the sends never block, so holding the lock
	// here cannot deadlock against register/unregister.
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Viewer's outgoing buffer is full; disconnect it
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// writePump drains the client's send channel onto the WebSocket connection
// and sends periodic ping frames. Runs in its own goroutine per client.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump processes control frames (pong, close) and detects disconnects.
// Blocks until the connection closes.
func (c *client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
