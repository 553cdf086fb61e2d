package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/monitoring"
	"github.com/mjrgh/PinballY-sub000/internal/script"
)

const (
	sendBuffer = 64
	writeWait  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // debug consoles run from anywhere on the LAN
	},
}

// Hub fans fired script events out to websocket clients. Publish runs on
// the UI thread and never blocks: a client that falls behind loses
// frames.
type Hub struct {
	log     *zap.Logger
	metrics *monitoring.Metrics

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub
func NewHub(log *zap.Logger, metrics *monitoring.Metrics) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log:     log,
		metrics: metrics,
		clients: make(map[*client]struct{}),
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish encodes ev once and queues it for every client
func (h *Hub) Publish(ev script.FiredEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		return
	}

	frame, err := sonic.Marshal(ev)
	if err != nil {
		h.log.Warn("event not encoded", zap.String("event", ev.Name), zap.Error(err))
		return
	}
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			h.log.Debug("event feed client behind, frame dropped")
		}
	}
}

// HandleConnection upgrades the request and streams events until the
// client goes away
func (h *Hub) HandleConnection(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.add(c) {
		conn.Close()
		return
	}
	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()

	go h.readPump(c)
	h.writePump(c)
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump discards client messages; it exists to notice disconnects
func (h *Hub) readPump(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for frame := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			h.remove(c)
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
