package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"merval/internal/application/port"
	"merval/internal/application/service"
	"merval/internal/domain"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 8
)

// Intents bundles the component contracts that user actions from the
// presentation layer dispatch into.
type Intents struct {
	Favorites *service.Favorites
	Calc      *service.MEPCalculator
	Portfolio *service.Portfolio
}

// intentMsg is one action forwarded verbatim by the front end.
type intentMsg struct {
	Op       string `json:"op"` // toggle_favorite | mep_amount | portfolio_add | portfolio_remove
	ID       string `json:"id"`
	Class    string `json:"type"`
	Amount   string `json:"amount"`
	Quantity string `json:"quantity"`
}

// client is one connected consumer. Writes go through send, drained by
// its own writer goroutine, so publishing never waits on a socket.
type client struct {
	send chan []byte
	done chan struct{}
}

// Hub pushes each merged cycle to connected dashboard clients and
// accepts their intents. A client whose send buffer is full misses that
// cycle; a client whose writes fail is dropped. The poll cycle never
// blocks on a consumer.
type Hub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]*client
	latest   []byte
	baseCtx  context.Context
	intents  Intents
	upgrader websocket.Upgrader
}

func NewHub(intents Intents) *Hub {
	return &Hub{
		clients: map[*websocket.Conn]*client{},
		intents: intents,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Hub) Publish(snap port.Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		log.Warn().Err(err).Msg("marshal snapshot failed")
		return
	}

	h.mu.Lock()
	h.latest = payload
	for _, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// slow consumer, this cycle is skipped for it
		}
	}
	h.mu.Unlock()
}

// ServeHTTP upgrades the connection, queues the latest cycle for replay
// and starts the per-client read and write loops.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[conn] = c
	if h.latest != nil {
		c.send <- h.latest
	}
	// the request context dies with the upgrade; the server run
	// context bounds intent dispatch instead
	ctx := h.baseCtx
	h.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	go h.writeLoop(conn, c)
	go h.readLoop(ctx, conn)
}

// drop deregisters and closes a connection. Safe to call from both
// loops; only the first call finds the client registered.
func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	c, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
		close(c.done)
	}
	h.mu.Unlock()
	if ok {
		_ = conn.Close()
	}
}

func (h *Hub) writeLoop(conn *websocket.Conn, c *client) {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.drop(conn)
				return
			}
		}
	}
}

func (h *Hub) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer h.drop(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg intentMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Err(err).Msg("bad intent message")
			continue
		}
		h.dispatch(ctx, msg)
	}
}

func (h *Hub) dispatch(ctx context.Context, msg intentMsg) {
	switch msg.Op {
	case "toggle_favorite":
		if h.intents.Favorites != nil {
			h.intents.Favorites.Toggle(ctx, msg.ID, domain.Class(msg.Class))
		}
	case "mep_amount":
		if h.intents.Calc != nil {
			h.intents.Calc.SetAmount(msg.Amount)
		}
	case "portfolio_add":
		if h.intents.Portfolio != nil {
			h.intents.Portfolio.Add(msg.ID, msg.Quantity)
		}
	case "portfolio_remove":
		if h.intents.Portfolio != nil {
			h.intents.Portfolio.Remove(msg.ID)
		}
	default:
		log.Debug().Str("op", msg.Op).Msg("unknown intent")
	}
}

// closeAll drops every connected client; their read loops end when the
// connections close.
func (h *Hub) closeAll() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()
	for _, conn := range conns {
		h.drop(conn)
	}
}

// Run serves the websocket endpoint on addr until ctx ends, then closes
// every client connection.
func (h *Hub) Run(ctx context.Context, addr string) error {
	h.mu.Lock()
	h.baseCtx = ctx
	h.mu.Unlock()

	mux := http.NewServeMux()
	mux.Handle("/ws", h)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		h.closeAll()
	}()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

var _ port.SnapshotSink = (*Hub)(nil)
