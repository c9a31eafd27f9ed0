// Package dashboard implements the read-only fleet dashboard: a
// websocket Hub fanning out every Event Bus message to connected
// browsers, plus a static file server for the dashboard's frontend
// assets. Grounded on EverforgeWorks-Galaxies-Server's
// internal/api/hub.go (client registry, buffered per-client send
// channel, broadcast-or-drop-on-full), adapted from its ad-hoc
// []byte/Message envelope to the domain Event Bus's events.Event.
package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/voidfleet/controller/internal/domain/events"
)

const clientSendBuffer = 256

// Client is one connected dashboard browser tab.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of connected dashboard clients and fans out
// every broadcast event to each of them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub constructs an empty Hub; call Run in its own goroutine before
// registering it with the Event Bus via AddEventListener.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, clientSendBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the Hub's single event loop; it owns the clients map so no
// further locking is needed. Exits when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Send implements eventbus.Sink: it marshals e to JSON and enqueues it
// onto the broadcast channel without blocking, dropping the event (with
// a log line) if the Hub's loop is falling behind.
func (h *Hub) Send(e events.Event) {
	raw, err := json.Marshal(e)
	if err != nil {
		log.Printf("dashboard: marshal event: %v", err)
		return
	}
	select {
	case h.broadcast <- raw:
	default:
		log.Printf("dashboard: broadcast channel full, dropping %s event", e.Kind)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ServeWs upgrades an HTTP request to a websocket connection and
// registers the resulting Client with the Hub.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("dashboard: upgrade error: %v", err)
		return
	}
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, clientSendBuffer)}
	hub.register <- client
	go client.writePump()
	go client.readPump()
}

// readPump discards inbound messages; the dashboard is read-only, but a
// stalled reader would never notice the peer closing the connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		if _, err := w.Write(message); err != nil {
			return
		}
		if err := w.Close(); err != nil {
			return
		}
	}
}
