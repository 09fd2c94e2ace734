// Package realtime is the websocket fanout for dashboard invalidation
// events. Delivery is at most once: events published while a client is
// connected are pushed, nothing is replayed on reconnect.
package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"bakery-backend/internal/metrics"
)

// Event names pushed to dashboard clients.
const (
	EventStockUpdated        = "stock-updated"
	EventProductStockUpdated = "product-stock-updated"
	EventPromotion           = "promotion-recommendation"
	EventForecastUpdated     = "forecast-updated"
)

// Event is an invalidation hint. Payload carries just enough for the client
// to decide what to refetch, never the full entity.
type Event struct {
	Type     string `json:"type"`
	BranchID string `json:"branchId,omitempty"`
	Payload  any    `json:"payload,omitempty"`
}

type message struct {
	branchID string // empty means broadcast to every client
	event    Event
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub tracks websocket clients and the branch topic each has joined.
// Publish never blocks the caller: events go through a buffered queue and
// are dropped with a log line when the queue is full.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]string // conn -> joined branch id ("" until join)
	queue   chan message
	done    chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]string),
		queue:   make(chan message, 64),
		done:    make(chan struct{}),
	}
}

// Run drains the publish queue and fans events out. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case msg := <-h.queue:
			h.deliver(msg)
		case <-h.done:
			return
		}
	}
}

// Close stops Run. Connected clients are left to their read loops.
func (h *Hub) Close() {
	close(h.done)
}

// Publish queues an event for clients joined to branchID. An empty branchID
// broadcasts to all clients. Drops the event when the queue is full.
func (h *Hub) Publish(branchID string, event Event) {
	select {
	case h.queue <- message{branchID: branchID, event: event}:
		metrics.RealtimeEventsTotal.WithLabelValues(event.Type).Inc()
	default:
		log.Printf("[Hub] queue full, dropping %s event", event.Type)
	}
}

func (h *Hub) deliver(msg message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, branch := range h.clients {
		if msg.branchID != "" && branch != msg.branchID {
			continue
		}
		if err := conn.WriteJSON(msg.event); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

type clientCommand struct {
	Action   string `json:"action"`
	BranchID string `json:"branchId"`
}

// HandleWS upgrades the connection and reads join-branch commands until the
// client goes away. A client receives branch events only after joining; the
// global events are pushed regardless.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[Hub] websocket upgrade error:", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = ""
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd clientCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			continue
		}
		if cmd.Action == "join-branch" && cmd.BranchID != "" {
			h.mu.Lock()
			h.clients[conn] = cmd.BranchID
			h.mu.Unlock()
		}
	}
}

// ClientCount reports connected clients, used by the health endpoint.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
