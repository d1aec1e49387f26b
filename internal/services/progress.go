package services

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ProgressEvent is one crawl lifecycle update pushed to subscribers.
type ProgressEvent struct {
	SessionID string      `json:"session_id"`
	RunID     uint        `json:"run_id"`
	TargetID  uint        `json:"target_id"`
	Stage     string      `json:"stage"` // started, challenge, solving, solved, blocked, extracting, completed, failed
	Message   string      `json:"message"`
	Detail    interface{} `json:"detail,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ProgressHub fans crawl progress out to websocket subscribers.
type ProgressHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

var GlobalProgress = &ProgressHub{
	conns: make(map[*websocket.Conn]struct{}),
}

func (h *ProgressHub) Subscribe(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	log.Printf("📡 Progress subscriber connected (%d active)", h.Count())
}

func (h *ProgressHub) Unsubscribe(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *ProgressHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast pushes one event to every subscriber, dropping connections
// that fail to accept the write.
func (h *ProgressHub) Broadcast(event ProgressEvent) {
	event.Timestamp = time.Now()

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteJSON(event); err != nil {
			delete(h.conns, conn)
			conn.Close()
		}
	}
}
