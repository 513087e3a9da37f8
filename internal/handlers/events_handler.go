package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/triplog/server/internal/services"
)

// EventsHandler upgrades clients onto the photo event stream
type EventsHandler struct {
	hub      *services.EventHub
	upgrader websocket.Upgrader
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(hub *services.EventHub) *EventsHandler {
	return &EventsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Same permissive policy as the CORS middleware
				return true
			},
		},
	}
}

// Serve upgrades the connection and streams photo events until the client
// disconnects
func (h *EventsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := h.hub.NewClient(uuid.New().String(), conn)
	h.hub.Register(client)

	go client.WritePump()
	client.ReadPump()
}
