package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types broadcast to connected clients
const (
	EventPhotoUploaded = "photo_uploaded"
	EventPhotoDeleted  = "photo_deleted"
	EventStepDeleted   = "step_deleted"
)

// PhotoEvent is pushed to every connected client when the upload pipeline
// stores or removes a photo
type PhotoEvent struct {
	Type   string `json:"type"`
	StepID string `json:"stepId"`
	UUID   string `json:"uuid,omitempty"`
	Name   string `json:"name,omitempty"`
}

// EventClient represents one connected WebSocket client
type EventClient struct {
	ID         string
	Conn       *websocket.Conn
	Send       chan []byte
	hub        *EventHub
	mu         sync.Mutex
	closedOnce sync.Once
}

// EventHub manages WebSocket connections and fans photo events out to them
type EventHub struct {
	clients    map[*EventClient]bool
	register   chan *EventClient
	unregister chan *EventClient
	broadcast  chan []byte
	mu         sync.RWMutex
}

// NewEventHub creates a new EventHub
func NewEventHub() *EventHub {
	return &EventHub{
		clients:    make(map[*EventClient]bool),
		register:   make(chan *EventClient),
		unregister: make(chan *EventClient),
		broadcast:  make(chan []byte, 256),
	}
}

// Run starts the hub's main loop
func (h *EventHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("WebSocket client connected: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("WebSocket client disconnected: %s", client.ID)

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Client buffer full, close connection
					go func(c *EventClient) {
						h.unregister <- c
					}(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends an event to every connected client
func (h *EventHub) Broadcast(event PhotoEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling WebSocket event: %v", err)
		return
	}
	h.broadcast <- data
}

// ClientCount returns the number of connected clients
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NewClient creates a new client connected to this hub
func (h *EventHub) NewClient(id string, conn *websocket.Conn) *EventClient {
	return &EventClient{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, 256),
		hub:  h,
	}
}

// Register adds a client to the hub
func (h *EventHub) Register(client *EventClient) {
	h.register <- client
}

// Close closes the client connection
func (c *EventClient) Close() {
	c.closedOnce.Do(func() {
		c.hub.unregister <- c
		c.Conn.Close()
	})
}

// WritePump pumps events from the hub to the websocket connection
func (c *EventClient) WritePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.mu.Lock()
			err := c.Conn.WriteMessage(websocket.TextMessage, message)
			c.mu.Unlock()

			if err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump drains the websocket connection until the client goes away. The
// event stream is one-way; inbound messages are discarded.
func (c *EventClient) ReadPump() {
	defer c.Close()

	c.Conn.SetReadLimit(4 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}
