// Package events fans security events out to connected websocket clients.
package events

import (
	"fmt"
	"sync"
	"time"

	"token-service/pkg/logger"
)

// Event is a single security event broadcast to subscribers.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// Client is a hub subscriber with a buffered delivery channel. Clients that
// stop draining their channel are dropped.
type Client struct {
	send chan Event
}

// Events returns the client's delivery channel. The channel is closed when
// the client is unsubscribed or the hub stops.
func (c *Client) Events() <-chan Event {
	return c.send
}

// Hub routes published events to all subscribed clients.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	clients    map[*Client]bool
	stopChan   chan struct{}
	mutex      sync.RWMutex
	isRunning  bool
	count      int
	log        *logger.Logger
}

// NewHub creates an event hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client, 8),
		unregister: make(chan *Client, 8),
		broadcast:  make(chan Event, 64),
		clients:    make(map[*Client]bool),
		stopChan:   make(chan struct{}),
		log:        log.WithComponent("events"),
	}
}

// Start launches the hub loop.
func (h *Hub) Start() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.isRunning {
		return fmt.Errorf("event hub is already running")
	}

	h.isRunning = true
	go h.run()

	h.log.Info("Event hub started")
	return nil
}

// Stop shuts the hub down and closes all client channels.
func (h *Hub) Stop() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if !h.isRunning {
		return
	}

	close(h.stopChan)
	h.isRunning = false

	h.log.Info("Event hub stopped")
}

// IsRunning returns whether the hub loop is active.
func (h *Hub) IsRunning() bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return h.isRunning
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return h.count
}

// Subscribe registers a new client with the hub.
func (h *Hub) Subscribe() *Client {
	client := &Client{send: make(chan Event, 16)}
	h.register <- client
	return client
}

// Unsubscribe removes a client and closes its channel.
func (h *Hub) Unsubscribe(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopChan:
	}
}

// Publish broadcasts an event to all clients. Events are dropped, not
// queued indefinitely, when the hub is saturated.
func (h *Hub) Publish(eventType string, data interface{}) {
	event := Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	select {
	case h.broadcast <- event:
	default:
		h.log.Warning("Event dropped, broadcast queue full: %s", eventType)
	}
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.setCount(len(h.clients))
			h.log.Debug("Client subscribed, total: %d", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.setCount(len(h.clients))
			}

		case event := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- event:
				default:
					// Slow client: drop it rather than stall the hub
					delete(h.clients, client)
					close(client.send)
					h.setCount(len(h.clients))
					h.log.Warning("Dropped slow event client")
				}
			}

		case <-h.stopChan:
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.setCount(0)
			return
		}
	}
}

func (h *Hub) setCount(n int) {
	h.mutex.Lock()
	h.count = n
	h.mutex.Unlock()
}
