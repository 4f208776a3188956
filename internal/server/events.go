package server

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"voice-assistant/internal/domain"
)

// writeTimeout bounds each client write: a stalled peer is dropped rather
// than allowed to back up the broadcast.
const writeTimeout = 5 * time.Second

// Hub pushes session events to connected UI pages over websockets. It
// implements application.EventSink.
type Hub struct {
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*websocket.Conn]bool),
	}
}

type wsEvent struct {
	Type    string              `json:"type"`
	State   domain.SessionState `json:"state,omitempty"`
	Turn    *domain.TurnResult  `json:"turn,omitempty"`
	Stage   domain.Stage        `json:"stage,omitempty"`
	Message string              `json:"message,omitempty"`
}

func (h *Hub) StateChanged(state domain.SessionState) {
	h.broadcast(wsEvent{Type: "state", State: state})
}

func (h *Hub) TurnCompleted(result domain.TurnResult, _ time.Duration) {
	h.broadcast(wsEvent{Type: "turn", Turn: &result})
}

func (h *Hub) TurnFailed(stage domain.Stage, err error) {
	h.broadcast(wsEvent{Type: "error", Stage: stage, Message: err.Error()})
}

func (h *Hub) broadcast(event wsEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("marshaling ws event", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Warn("ws write failed, dropping client", "error", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// serve registers a UI connection and blocks until it closes.
func (h *Hub) serve(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ui connected", "clients", count)

	// The UI never sends messages; the read loop only detects close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// ClientCount reports the number of connected UI pages.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
