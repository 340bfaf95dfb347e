// File: /services/notification_hub_test.go
package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// hubTestConn registers a real server-side connection on the hub and returns
// the client side for reading.
func hubTestConn(t *testing.T, hub *NotificationHub, accountID string) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(accountID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	url := strings.Replace(srv.URL, "http", "ws", 1)
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	deadline := time.Now().Add(time.Second)
	for !hub.IsOnline(accountID) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !hub.IsOnline(accountID) {
		t.Fatal("connection was not registered")
	}
	return client
}

// Pushes come from arbitrary request goroutines, so simultaneous
// notifications to one recipient must serialize on the connection instead of
// tripping gorilla's single-writer restriction.
func TestSendConcurrentToOneConnection(t *testing.T) {
	hub := NewNotificationHub()
	client := hubTestConn(t, hub, "acc-1")

	const writers = 8
	const perWriter = 200

	// Drain the client side while the writers run so nobody blocks on a full
	// socket buffer.
	readErr := make(chan error, 1)
	go func() {
		client.SetReadDeadline(time.Now().Add(10 * time.Second))
		for received := 0; received < writers*perWriter; received++ {
			var msg HubMessage
			if err := client.ReadJSON(&msg); err != nil {
				readErr <- err
				return
			}
		}
		readErr <- nil
	}()

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				hub.Send("acc-1", "notification", map[string]int{"writer": w, "seq": i})
			}
		}(w)
	}
	wg.Wait()

	// Every push survived: the connection is still registered and all frames
	// arrive intact on the client side.
	if !hub.IsOnline("acc-1") {
		t.Fatal("connection should survive concurrent pushes")
	}
	if err := <-readErr; err != nil {
		t.Fatalf("client read failed: %v", err)
	}
}

func TestBroadcastConcurrentWithSend(t *testing.T) {
	hub := NewNotificationHub()
	client := hubTestConn(t, hub, "acc-1")

	const rounds = 100

	readErr := make(chan error, 1)
	go func() {
		client.SetReadDeadline(time.Now().Add(10 * time.Second))
		for received := 0; received < 2*rounds; received++ {
			var msg HubMessage
			if err := client.ReadJSON(&msg); err != nil {
				readErr <- err
				return
			}
		}
		readErr <- nil
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			hub.Send("acc-1", "notification", i)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			hub.Broadcast("message", i)
		}
	}()
	wg.Wait()

	if err := <-readErr; err != nil {
		t.Fatalf("client read failed: %v", err)
	}
}

func TestSendToOfflineAccount(t *testing.T) {
	hub := NewNotificationHub()

	// No-op, no error, nothing registered
	hub.Send("nobody", "notification", "hello")
	if hub.OnlineCount() != 0 {
		t.Errorf("expected no connections, got %d", hub.OnlineCount())
	}
}
