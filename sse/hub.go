package sse

import (
	"path/filepath"
	"sync"

	"github.com/kbukum/voicedoc/logger"
)

const clientBuffer = 64

// Client is one connected event stream.
type Client struct {
	id     string
	userID string
	events chan []byte
	log    *logger.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithUserID tags the client with the signed-in user.
func WithUserID(userID string) ClientOption {
	return func(c *Client) { c.userID = userID }
}

// WithInitial queues frames to be sent before any broadcast, such as the
// current recording state.
func WithInitial(frames ...[]byte) ClientOption {
	return func(c *Client) {
		for _, f := range frames {
			c.Send(f)
		}
	}
}

// NewClient creates a client with a buffered event channel.
func NewClient(id string, opts ...ClientOption) *Client {
	c := &Client{id: id, events: make(chan []byte, clientBuffer), log: logger.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the client's unique identifier.
func (c *Client) ID() string { return c.id }

// UserID returns the user the client was opened for.
func (c *Client) UserID() string { return c.userID }

// Events returns the channel of encoded frames.
func (c *Client) Events() <-chan []byte { return c.events }

// Send queues a frame. It returns false and drops the frame if the client
// is too slow to keep up.
func (c *Client) Send(frame []byte) bool {
	select {
	case c.events <- frame:
		return true
	default:
		c.log.Warn("client channel full, dropping event", logger.Fields("client_id", c.id))
		return false
	}
}

func (c *Client) close() { close(c.events) }

type message struct {
	pattern string
	frame   []byte
}

// Hub routes encoded events to connected clients. Run owns the client set;
// the other methods talk to it over channels and never block once the hub
// has stopped.
type Hub struct {
	log        *logger.Logger
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

var _ Broadcaster = (*Hub)(nil)

// NewHub creates a hub. Call Run to start routing.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:        log.WithComponent("sse"),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 64),
		done:       make(chan struct{}),
	}
}

// Run is the hub's event loop. It returns after Stop, closing every client.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return

		case c := <-h.register:
			c.log = h.log
			h.mu.Lock()
			h.clients[c.id] = c
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client registered", logger.Fields("client_id", c.id, "clients", n))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				c.close()
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client unregistered", logger.Fields("client_id", c.id, "clients", n))

		case m := <-h.broadcast:
			h.deliver(m)
		}
	}
}

// Stop shuts the hub down. Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Register adds a client. It reports false if the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast sends e to every client.
func (h *Hub) Broadcast(e Event) error {
	return h.BroadcastToPattern("*", e)
}

// BroadcastToPattern sends e to clients whose ID matches pattern.
func (h *Hub) BroadcastToPattern(pattern string, e Event) error {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return err
	}
	frame, err := Encode(e)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- message{pattern: pattern, frame: frame}:
	case <-h.done:
	}
	return nil
}

func (h *Hub) deliver(m message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for id, c := range h.clients {
		if ok, _ := filepath.Match(m.pattern, id); ok && c.Send(m.frame) {
			sent++
		}
	}
	h.log.Debug("event delivered", logger.Fields("pattern", m.pattern, "clients", sent, logger.FieldBytes, len(m.frame)))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.close()
		delete(h.clients, id)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
