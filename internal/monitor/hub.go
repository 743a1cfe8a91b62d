package monitor

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/KwonByeongjun/ftlsim/internal/ftl"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is same-origin in the reference deployment; a real
	// multi-origin deployment would restrict this.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// hub fans a StatsSnapshot out to every connected websocket client. Each
// client gets its own buffered outbox so one slow reader can't block
// broadcast to the others; a full outbox just drops the update, same
// non-blocking-publish policy as the driver's own channel send.
type hub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	conn *websocket.Conn
	out  chan ftl.StatsSnapshot
}

func newHub() *hub {
	return &hub{clients: make(map[*wsClient]struct{})}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) broadcast(snap ftl.StatsSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.out <- snap:
		default:
		}
	}
}

func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &wsClient{conn: conn, out: make(chan ftl.StatsSnapshot, 16)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		conn.Close()
	}()

	// Drain the read side so the connection's close/ping frames are
	// processed; the client never sends application data. A read error
	// (including a close frame) closes done, which ends the write loop.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return nil
		case snap := <-c.out:
			if err := conn.WriteJSON(snap); err != nil {
				return err
			}
		}
	}
}
