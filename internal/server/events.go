package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mojocode/mojocode/internal/domain"
	"github.com/mojocode/mojocode/internal/logging"
)

// TaskEvent is pushed to WebSocket subscribers whenever a task changes.
type TaskEvent struct {
	Type string      `json:"type"`
	Task domain.Task `json:"task"`
}

// Hub fans task events out to connected WebSocket clients.
type Hub struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
	log      *logging.Logger
}

// NewHub creates a hub with the given allowed WebSocket origins.
func NewHub(allowedOrigins []string, log *logging.Logger) *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkWebSocketOrigin(allowedOrigins),
		},
		log: log.Sub("events"),
	}
}

// checkWebSocketOrigin returns a function that validates WebSocket
// Origin headers. Requests without an Origin (same-origin or
// non-browser clients) are always allowed; otherwise the Origin must
// match a configured entry.
func checkWebSocketOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// HandleWebSocket upgrades the request and keeps the connection
// subscribed until the client closes it. The stream is one-way; inbound
// messages are discarded.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	count := len(h.conns)
	h.mu.Unlock()
	h.log.Debug().Str("remote", r.RemoteAddr).Int("subscribers", count).Msg("event subscriber connected")

	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug().Err(err).Msg("event subscriber read error")
			}
			return
		}
	}
}

// Broadcast sends an event to every subscriber. Write failures drop the
// connection.
func (h *Hub) Broadcast(evt TaskEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(evt); err != nil {
			h.log.Debug().Err(err).Msg("dropping event subscriber")
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// CloseAll closes every subscriber connection.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}
