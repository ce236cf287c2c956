package supervisor

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/9wick/enbu/progress"
)

// Broadcaster fans a Supervisor's progress frames out to any number of
// websocket-connected UI subscribers. This repurposes gorilla/websocket
// for a server-side fan-out role, not as a BiDi protocol client: every
// subscriber gets every frame, there is no per-client request/response.
type Broadcaster struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewBroadcaster returns a Broadcaster ready to accept subscribers via
// ServeHTTP and frames via Publish.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Flow progress is not cross-origin sensitive: the payload is
			// non-secret run telemetry, and this server is meant to be run
			// on a local/dev-loopback address by a test UI.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request to a websocket and registers the
// connection as a subscriber until it disconnects.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	b.mu.Lock()
	b.clients[conn] = struct{}{}
	b.mu.Unlock()

	// Drain incoming control/close frames until the client disconnects;
	// this subscriber never sends anything meaningful upstream.
	go func() {
		defer b.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (b *Broadcaster) remove(conn *websocket.Conn) {
	b.mu.Lock()
	delete(b.clients, conn)
	b.mu.Unlock()
	conn.Close()
}

// Publish fans f out to every currently-connected subscriber. A write
// failure drops that subscriber rather than aborting the broadcast.
func (b *Broadcaster) Publish(f progress.Frame) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return err
	}

	b.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(b.clients))
	for c := range b.clients {
		conns = append(conns, c)
	}
	b.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			b.remove(c)
		}
	}
	return nil
}

// Handler subscribes a Supervisor's frames directly to a Broadcaster's
// Publish, wiring C8's child-process output straight into the websocket
// fan-out with no intermediate buffering.
func Handler(sup *Supervisor, b *Broadcaster) {
	sup.OnFrame(func(f progress.Frame) {
		_ = b.Publish(f)
	})
}
