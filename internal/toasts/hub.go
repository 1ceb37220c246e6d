// Package toasts broadcasts transient messages to connected admin
// screens over server-sent events. The hub implements the Toaster
// contract consumed by the review store and the change watchers.
package toasts

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

const clientBuffer = 16

type Toast struct {
	Kind        string    `json:"kind"` // "success" or "error"
	Title       string    `json:"title"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

type Hub struct {
	logger *zap.SugaredLogger

	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[chan []byte]struct{}),
	}
}

func (h *Hub) Success(title, description string) {
	h.broadcast(Toast{Kind: "success", Title: title, Description: description, At: time.Now()})
}

func (h *Hub) Error(title, description string) {
	h.broadcast(Toast{Kind: "error", Title: title, Description: description, At: time.Now()})
}

func (h *Hub) broadcast(t Toast) {
	data, err := json.Marshal(t)
	if err != nil {
		h.logger.Errorw("marshal toast", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.clients {
		select {
		case ch <- data:
		default:
			// slow client, it catches up or disconnects on its own
		}
	}
}

// Register adds an SSE client and returns its frame channel plus a
// deregistration func for the handler's defer.
func (h *Hub) Register() (<-chan []byte, func()) {
	ch := make(chan []byte, clientBuffer)

	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
	}
}

// ClientCount is used by the expvar metrics.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
