package transport

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cwbudde/algo-sdr/internal/logging"
)

const (
	sendQueue  = 16
	writeWait  = 5 * time.Second
	maxMessage = 4096
)

// Hub is an http.Handler that upgrades requests to websocket clients.
// Frames are fanned out to every client; a client that cannot keep up
// loses frames rather than stalling the producer.
type Hub struct {
	upgrader websocket.Upgrader
	ctl      Controller
	log      logging.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	dropped atomic.Uint64
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// NewHub returns a hub that routes control requests to ctl. A nil logger
// selects logging.Default().
func NewHub(ctl Controller, log logging.Logger) *Hub {
	if log == nil {
		log = logging.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		ctl:     ctl,
		log:     log.With(logging.F("component", "transport")),
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the connection and serves the client until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", logging.Err(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendQueue)}
	if !h.register(c) {
		conn.Close()
		return
	}

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.log.Info("client connected", logging.F("remote", c.conn.RemoteAddr().String()), logging.F("clients", len(h.clients)))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
		h.log.Info("client disconnected", logging.F("clients", len(h.clients)))
	}
	h.mu.Unlock()
}

func (h *Hub) readLoop(c *client) {
	defer h.unregister(c)
	c.conn.SetReadLimit(maxMessage)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		reply := handle(h.ctl, data)
		if reply.Type == TypeError {
			h.log.Warn("control request rejected", logging.F("error", reply.Error))
		} else {
			h.log.Debug("control request", logging.F("property", reply.Property), logging.F("value", reply.Value))
		}

		msg, err := json.Marshal(reply)
		if err != nil {
			h.log.Error("encode reply", logging.Err(err))
			continue
		}
		h.enqueue(c, msg)
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()

	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warn("send failed", logging.Err(err))
			h.unregister(c)
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) enqueue(c *client, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
		h.dropped.Add(1)
	}
}

// Broadcast encodes v once and queues it for every connected client.
func (h *Hub) Broadcast(v any) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.dropped.Add(1)
		}
	}
	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns how many messages were discarded for slow clients.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Close disconnects every client. Later connections are refused.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
	return nil
}
