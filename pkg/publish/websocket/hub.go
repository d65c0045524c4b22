// Package websocket broadcasts decoded events to WebSocket clients.
package websocket

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
	"github.com/robotalks/dcsbios.go/pkg/dcsbios/msgs"
	fx "github.com/robotalks/dcsbios.go/pkg/framework"
)

// DefaultPath is the HTTP path serving WebSocket connections.
const DefaultPath = "/events"

// DefaultQueueSize is the number of pending messages per client.
const DefaultQueueSize = 256

// Hub sends every event to all connected clients as binary messages
// holding the encoded msgs.Typed.
// A slow client drops messages instead of blocking the decoder.
type Hub struct {
	Addr      string
	QueueSize int

	lock    sync.RWMutex
	clients map[*client]struct{}
	dropped uint64
}

type client struct {
	conn   *websocket.Conn
	sendCh chan []byte
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.sendCh)
	})
}

// NewHub creates a Hub listening on addr when it runs.
func NewHub(addr string) *Hub {
	return &Hub{
		Addr:      addr,
		QueueSize: DefaultQueueSize,
		clients:   make(map[*client]struct{}),
	}
}

// Name implements framework.Named.
func (h *Hub) Name() string {
	return "websocket"
}

// Handler gets the http.Handler accepting WebSocket connections.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(h.serveConn)
}

// Run implements framework.Runnable.
func (h *Hub) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(DefaultPath, h.Handler())
	server := &http.Server{Addr: h.Addr, Handler: mux}
	glog.Infof("websocket: serving on %s%s", h.Addr, DefaultPath)
	return fx.RunWithContextCancel(ctx, func() {
		h.closeAll()
		server.Close()
	}, server.ListenAndServe)
}

// Clients gets the number of connected clients.
func (h *Hub) Clients() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.clients)
}

// Dropped gets the number of messages dropped for slow clients.
func (h *Hub) Dropped() uint64 {
	return atomic.LoadUint64(&h.dropped)
}

// HandleEvent implements dcsbios.EventHandler.
func (h *Hub) HandleEvent(ctx context.Context, ev dcsbios.Event) error {
	typed, err := msgs.TypedFromEvent(ev)
	if err != nil {
		return err
	}
	data, err := typed.Encode()
	if err != nil {
		return err
	}
	h.Broadcast(data)
	return nil
}

// Broadcast sends a message to all clients.
func (h *Hub) Broadcast(data []byte) {
	h.lock.RLock()
	defer h.lock.RUnlock()
	for c := range h.clients {
		select {
		case c.sendCh <- data:
		default:
			atomic.AddUint64(&h.dropped, 1)
		}
	}
}

func (h *Hub) serveConn(conn *websocket.Conn) {
	queueSize := h.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	c := &client{conn: conn, sendCh: make(chan []byte, queueSize)}
	h.lock.Lock()
	h.clients[c] = struct{}{}
	h.lock.Unlock()
	glog.V(1).Infof("websocket: client %s connected", conn.Request().RemoteAddr)

	go h.readLoop(c)
	for data := range c.sendCh {
		if err := websocket.Message.Send(conn, data); err != nil {
			glog.V(1).Infof("websocket: send error: %v", err)
			break
		}
	}
	h.remove(c)
	conn.Close()
	glog.V(1).Infof("websocket: client %s disconnected", conn.Request().RemoteAddr)
}

// readLoop discards incoming messages and detects disconnection.
func (h *Hub) readLoop(c *client) {
	var msg []byte
	for {
		if err := websocket.Message.Receive(c.conn, &msg); err != nil {
			h.remove(c)
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.lock.Lock()
	delete(h.clients, c)
	c.close()
	h.lock.Unlock()
}

func (h *Hub) closeAll() {
	h.lock.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
	h.lock.Unlock()
}
