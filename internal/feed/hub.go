package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/Josh-Grafman/boatrental/internal/event"
	"github.com/Josh-Grafman/boatrental/internal/logging"
)

const (
	sendBuffer   = 64
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// CommandHandler runs a client command. It is called on the client's read
// goroutine; post to the UI loop from it.
type CommandHandler func(Command)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected clients and broadcasts frames to them. A client
// whose buffer is full is dropped rather than slowing the publisher.
type Hub struct {
	logger         *logging.Logger
	originPatterns []string

	mu        sync.RWMutex
	clients   map[*client]struct{}
	onCommand CommandHandler
	closed    bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a hub. originPatterns are host patterns, as accepted by
// websocket.AcceptOptions; empty means same-origin only.
func NewHub(originPatterns []string, logger *logging.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		logger:         logging.OrNop(logger).WithComponent("feed"),
		originPatterns: originPatterns,
		clients:        make(map[*client]struct{}),
		ctx:            ctx,
		cancel:         cancel,
	}
}

// OnCommand sets the handler for client commands. Without one, commands are
// ignored.
func (h *Hub) OnCommand(fn CommandHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCommand = fn
}

// Attach mirrors every message published on bus. Release the returned
// subscription to stop.
func (h *Hub) Attach(bus *event.Bus) *event.Subscription {
	return bus.SubscribeAll(h.Publish)
}

// Publish broadcasts msg to every client. It never blocks.
func (h *Hub) Publish(msg event.Message) {
	f, ok := FrameFor(msg)
	if !ok {
		return
	}
	data, err := json.Marshal(f)
	if err != nil {
		h.logger.Error("encode frame", "error", err.Error())
		return
	}
	h.Broadcast(data)
}

// Broadcast sends raw data to every client.
func (h *Hub) Broadcast(data []byte) {
	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow client")
		h.remove(c, websocket.StatusPolicyViolation, "too slow")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and serves the client until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  h.originPatterns,
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		// Accept has already written the response.
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err.Error())
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.add(c) {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	h.logger.Info("client connected", "remote", r.RemoteAddr, "clients", h.ClientCount())

	go h.writeLoop(c)
	h.readLoop(c)
	h.remove(c, websocket.StatusNormalClosure, "")
	h.logger.Info("client disconnected", "remote", r.RemoteAddr, "clients", h.ClientCount())
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

// remove unregisters c and closes its connection in the background. Only
// the first call for a client has any effect. Sends happen under the read
// lock, so closing c.send under the write lock cannot race them.
func (h *Hub) remove(c *client, code websocket.StatusCode, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	if ok {
		go func() { _ = c.conn.Close(code, reason) }()
	}
}

func (h *Hub) readLoop(c *client) {
	for {
		_, data, err := c.conn.Read(h.ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && h.ctx.Err() == nil {
				h.logger.Debug("read ended", "error", err.Error())
			}
			return
		}

		cmd, err := ParseCommand(data)
		if err != nil {
			h.logger.Warn("bad client command", "error", err.Error())
			continue
		}

		h.mu.RLock()
		fn := h.onCommand
		h.mu.RUnlock()
		if fn != nil {
			fn(cmd)
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(h.ctx, writeTimeout)
			err := c.conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				h.logger.Debug("write failed", "error", err.Error())
				h.remove(c, websocket.StatusInternalError, "write failed")
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(h.ctx, writeTimeout)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				h.remove(c, websocket.StatusGoingAway, "ping failed")
				return
			}

		case <-h.ctx.Done():
			return
		}
	}
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.remove(c, websocket.StatusGoingAway, "server shutting down")
	}
	h.cancel()
}
