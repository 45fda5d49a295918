package stream

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"merval/internal/application/port"
	"merval/internal/application/service"
	"merval/internal/domain"
)

type memFavStore struct{}

func (memFavStore) Load(context.Context) ([]port.Favorite, error) { return nil, nil }
func (memFavStore) Save(context.Context, []port.Favorite) error   { return nil }

func dialHub(t *testing.T, hub *Hub) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(hub)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial failed: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestHubReplaysLatestOnConnect(t *testing.T) {
	hub := NewHub(Intents{})
	hub.Publish(port.Snapshot{MEPAmount: "$100.000"})

	conn, done := dialHub(t, hub)
	defer done()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(data), `"$100.000"`) {
		t.Errorf("expected the latest cycle replayed on connect, got %s", data)
	}
}

func TestHubDispatchesIntents(t *testing.T) {
	favorites := service.NewFavorites(memFavStore{})
	hub := NewHub(Intents{Favorites: favorites})

	conn, done := dialHub(t, hub)
	defer done()

	msg := `{"op":"toggle_favorite","id":"GGAL","type":"stock"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !favorites.IsFavorite("GGAL", domain.ClassStock) {
		if time.Now().After(deadline) {
			t.Fatal("intent was not dispatched before the deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubPublishDoesNotBlockOnSlowClient(t *testing.T) {
	hub := NewHub(Intents{})

	_, done := dialHub(t, hub) // connected but never reads
	defer done()

	start := time.Now()
	for i := 0; i < 100; i++ {
		hub.Publish(port.Snapshot{MEPAmount: "$1"})
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("publishing past a stalled client took %v", elapsed)
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub(Intents{})

	conn, done := dialHub(t, hub)
	defer done()

	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.Lock()
		n := len(hub.clients)
		hub.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.closeAll()

	hub.mu.Lock()
	n := len(hub.clients)
	hub.mu.Unlock()
	if n != 0 {
		t.Errorf("expected no clients after shutdown, %d registered", n)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the client read to fail after shutdown")
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := NewHub(Intents{})

	conn, done := dialHub(t, hub)
	conn.Close()
	defer done()

	// both publishes must complete without blocking on the dead client
	hub.Publish(port.Snapshot{})
	hub.Publish(port.Snapshot{})

	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.Lock()
		n := len(hub.clients)
		hub.mu.Unlock()
		if n == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected the closed client to be dropped, %d still registered", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
