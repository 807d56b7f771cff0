// Package remote exposes timer status over WebSocket and accepts start/stop
// commands over HTTP.
package remote

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"randomtimer/internal/core/timekeeper"
)

// Hub fans TimeKeeper events out to WebSocket clients. All writes happen on
// the Run goroutine. Each client remembers the last sequence number it was
// sent, so events older than its initial status are skipped.
type Hub struct {
	clients    map[*websocket.Conn]uint64
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	latest     func() timekeeper.Event
	now        func() time.Time
	logger     *slog.Logger
}

// NewHub creates a hub. latest supplies the status sent to new clients.
func NewHub(latest func() timekeeper.Event, now func() time.Time, logger *slog.Logger) *Hub {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*websocket.Conn]uint64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		latest:     latest,
		now:        now,
		logger:     logger,
	}
}

// Run broadcasts events until ctx is cancelled or events is closed.
func (hub *Hub) Run(ctx context.Context, events <-chan timekeeper.Event) {
	defer hub.shutdown()
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-hub.register:
			hub.clients[client] = 0
			hub.logger.Debug("status client registered", "clients", len(hub.clients))
			if hub.latest != nil {
				latest := hub.latest()
				hub.clients[client] = latest.Seq
				hub.send(client, messageFromEvent(latest, hub.now()))
			}
		case client := <-hub.unregister:
			if _, ok := hub.clients[client]; ok {
				delete(hub.clients, client)
				_ = client.Close()
			}
			hub.logger.Debug("status client unregistered", "clients", len(hub.clients))
		case event, ok := <-events:
			if !ok {
				return
			}
			message := messageFromEvent(event, hub.now())
			for client, seen := range hub.clients {
				if event.Seq <= seen {
					continue
				}
				hub.clients[client] = event.Seq
				hub.send(client, message)
			}
		}
	}
}

// Register adds a client. It reports false once the hub stopped.
func (hub *Hub) Register(client *websocket.Conn) bool {
	select {
	case hub.register <- client:
		return true
	case <-hub.done:
		return false
	}
}

// Unregister removes and closes a client.
func (hub *Hub) Unregister(client *websocket.Conn) {
	select {
	case hub.unregister <- client:
	case <-hub.done:
	}
}

func (hub *Hub) send(client *websocket.Conn, message Message) {
	payload, err := json.Marshal(message)
	if err != nil {
		hub.logger.Error("marshal status message", "error", err)
		return
	}
	_ = client.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := client.WriteMessage(websocket.TextMessage, payload); err != nil {
		hub.logger.Warn("status broadcast failed", "error", err)
		_ = client.Close()
		delete(hub.clients, client)
	}
}

func (hub *Hub) shutdown() {
	close(hub.done)
	for client := range hub.clients {
		_ = client.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "timer stopped"),
			time.Now().Add(time.Second))
		_ = client.Close()
		delete(hub.clients, client)
	}
}
