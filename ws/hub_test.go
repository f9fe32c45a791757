package ws

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type frame struct {
	Event   string                 `json:"event"`
	Payload map[string]interface{} `json:"payload"`
}

// newHubServer runs the hub behind a test endpoint that registers every
// connection under the user id and admin flag from the query string.
func newHubServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub()
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		userID, _ := strconv.ParseUint(r.URL.Query().Get("user"), 10, 64)
		isAdmin := r.URL.Query().Get("admin") == "1"
		hub.Register(conn, uint(userID), isAdmin)
	}))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, userID uint, isAdmin bool) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + strconv.FormatUint(uint64(userID), 10)
	if isAdmin {
		url += "&admin=1"
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing hub: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	return f
}

func waitOnline(t *testing.T, hub *Hub, userID uint) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.IsOnline(userID) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("user %d never came online", userID)
}

func TestEmitToUserDeliversFrame(t *testing.T) {
	hub, srv := newHubServer(t)
	conn := dial(t, srv, 1, false)
	waitOnline(t, hub, 1)

	if err := hub.EmitToUser(1, "notification.created", map[string]string{"title": "hi"}); err != nil {
		t.Fatalf("EmitToUser: %v", err)
	}

	f := readFrame(t, conn)
	if f.Event != "notification.created" {
		t.Fatalf("unexpected event %q", f.Event)
	}
	if f.Payload["title"] != "hi" {
		t.Fatalf("unexpected payload %v", f.Payload)
	}
}

func TestEmitToUserOffline(t *testing.T) {
	hub, _ := newHubServer(t)

	if err := hub.EmitToUser(42, "notification.created", nil); err == nil {
		t.Fatal("expected error for offline user")
	}
}

func TestBroadcastReachesEveryConnection(t *testing.T) {
	hub, srv := newHubServer(t)
	conn1 := dial(t, srv, 1, false)
	conn2 := dial(t, srv, 2, false)
	waitOnline(t, hub, 1)
	waitOnline(t, hub, 2)

	hub.Broadcast("notification.created", map[string]string{"title": "for everyone"})

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		f := readFrame(t, conn)
		if f.Event != "notification.created" {
			t.Fatalf("unexpected event %q", f.Event)
		}
	}
}

func TestEmitToAdminsSkipsRegularUsers(t *testing.T) {
	hub, srv := newHubServer(t)
	adminConn := dial(t, srv, 1, true)
	userConn := dial(t, srv, 2, false)
	waitOnline(t, hub, 1)
	waitOnline(t, hub, 2)

	hub.EmitToAdmins("chat.message", map[string]string{"content": "help needed"})

	f := readFrame(t, adminConn)
	if f.Event != "chat.message" {
		t.Fatalf("unexpected event %q", f.Event)
	}

	userConn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := userConn.ReadMessage(); err == nil {
		t.Fatal("regular user must not receive admin-only events")
	}
}

func TestConcurrentEmitsShareOneConnection(t *testing.T) {
	hub, srv := newHubServer(t)
	conn := dial(t, srv, 1, true)
	waitOnline(t, hub, 1)

	const (
		writers       = 8
		framesPerSide = 50
	)

	// drain everything the hub pushes; WriteJSON corrupts frames if two
	// writers ever interleave, so every frame must decode cleanly
	done := make(chan error, 1)
	go func() {
		conn.SetReadDeadline(time.Now().Add(10 * time.Second))
		for i := 0; i < writers*framesPerSide*3; i++ {
			var f frame
			if err := conn.ReadJSON(&f); err != nil {
				done <- err
				return
			}
			if f.Event != "notification.created" {
				done <- fmt.Errorf("unexpected event %q", f.Event)
				return
			}
		}
		done <- nil
	}()

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < framesPerSide; i++ {
				hub.Broadcast("notification.created", map[string]string{"title": "a"})
				if err := hub.EmitToUser(1, "notification.created", map[string]string{"title": "b"}); err != nil {
					t.Errorf("EmitToUser: %v", err)
					return
				}
				hub.EmitToAdmins("notification.created", map[string]string{"title": "c"})
			}
		}()
	}
	wg.Wait()

	if err := <-done; err != nil {
		t.Fatalf("reading frames: %v", err)
	}
}

func TestRegisterReplacesOlderConnection(t *testing.T) {
	hub, srv := newHubServer(t)

	oldConn := dial(t, srv, 7, false)
	waitOnline(t, hub, 7)

	newConn := dial(t, srv, 7, false)
	// wait for the new connection to displace the old one
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		replaced := len(hub.conns) == 1
		hub.mu.RUnlock()
		if replaced {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := hub.EmitToUser(7, "notification.created", map[string]string{"title": "latest wins"}); err != nil {
		t.Fatalf("EmitToUser: %v", err)
	}

	f := readFrame(t, newConn)
	if f.Payload["title"] != "latest wins" {
		t.Fatalf("unexpected payload %v", f.Payload)
	}

	// the displaced connection was closed server-side
	oldConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := oldConn.ReadMessage(); err == nil {
		t.Fatal("expected the replaced connection to be closed")
	}
}

func TestUnregisterKeepsNewerMapping(t *testing.T) {
	hub := NewHub()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn, 5, false)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	first, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { first.Close() })
	waitOnline(t, hub, 5)

	hub.mu.RLock()
	var firstServerConn *websocket.Conn
	for conn := range hub.conns {
		firstServerConn = conn
	}
	hub.mu.RUnlock()

	second, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { second.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		_, stillRegistered := hub.conns[firstServerConn]
		hub.mu.RUnlock()
		if !stillRegistered {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	// a late unregister of the replaced connection must not evict the user
	hub.Unregister(firstServerConn)
	if !hub.IsOnline(5) {
		t.Fatal("unregistering a stale connection evicted the live one")
	}
}
