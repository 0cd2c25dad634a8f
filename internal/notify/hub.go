package notify

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Hub manages active dashboard WebSocket connections keyed by account ID and
// pushes events to a recipient's open sessions. Each connection carries its
// own write lock: gorilla/websocket allows at most one concurrent writer per
// connection.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*websocket.Conn]*sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]map[*websocket.Conn]*sync.Mutex),
	}
}

// Register adds a connection for the given account.
func (h *Hub) Register(accountID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[accountID] == nil {
		h.conns[accountID] = make(map[*websocket.Conn]*sync.Mutex)
	}
	h.conns[accountID][conn] = &sync.Mutex{}
}

// Unregister removes a connection for the given account.
func (h *Hub) Unregister(accountID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.conns[accountID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.conns, accountID)
		}
	}
}

// Send delivers the payload to all active connections of one account.
// Connections that fail to write are closed.
func (h *Hub) Send(accountID string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn, wmu := range h.conns[accountID] {
		wmu.Lock()
		err := conn.WriteJSON(payload)
		wmu.Unlock()
		if err != nil {
			conn.Close()
			// actual removal is best-effort; a stale conn may linger
			// until the next Register/Unregister
		}
	}
}
