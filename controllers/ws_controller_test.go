// File: /controllers/ws_controller_test.go
package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"crewcall-api/controllers"
	"crewcall-api/services"
)

func wsTestServer(t *testing.T) (*httptest.Server, *services.NotificationHub) {
	t.Helper()

	hub := services.NewNotificationHub()
	router := gin.New()
	router.GET("/ws", controllers.NewWSController(hub, testJWTSecret).Connect)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, hub
}

func wsToken(t *testing.T, accountID string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"account_id": accountID,
		"role":       "staff",
		"exp":        time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func dialWS(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()

	url := strings.Replace(srv.URL, "http", "ws", 1) + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func TestWebSocketConnect(t *testing.T) {
	srv, hub := wsTestServer(t)

	conn := dialWS(t, srv, wsToken(t, "acc-1"))

	// The first frame confirms room membership
	var welcome services.HubMessage
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("failed to read welcome message: %v", err)
	}
	if welcome.Type != "joinRoom" {
		t.Errorf("expected joinRoom message, got %q", welcome.Type)
	}

	// Wait for the hub to register the connection
	deadline := time.Now().Add(time.Second)
	for !hub.IsOnline("acc-1") && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !hub.IsOnline("acc-1") {
		t.Fatal("account should be online after connecting")
	}

	// A targeted push lands on this connection
	hub.Send("acc-1", "notification", map[string]string{"message": "hello"})

	var pushed services.HubMessage
	if err := conn.ReadJSON(&pushed); err != nil {
		t.Fatalf("failed to read pushed message: %v", err)
	}
	if pushed.Type != "notification" {
		t.Errorf("expected notification push, got %q", pushed.Type)
	}

	// Pushes to other rooms are not delivered here
	hub.Send("acc-2", "notification", "not for acc-1")
}

func TestWebSocketPing(t *testing.T) {
	srv, _ := wsTestServer(t)
	conn := dialWS(t, srv, wsToken(t, "acc-1"))

	var welcome services.HubMessage
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("failed to read welcome message: %v", err)
	}

	if err := conn.WriteJSON(services.HubMessage{Type: "ping"}); err != nil {
		t.Fatalf("failed to send ping: %v", err)
	}
	var pong services.HubMessage
	if err := conn.ReadJSON(&pong); err != nil {
		t.Fatalf("failed to read pong: %v", err)
	}
	if pong.Type != "pong" {
		t.Errorf("expected pong, got %q", pong.Type)
	}
}

func TestWebSocketRejectsBadToken(t *testing.T) {
	srv, hub := wsTestServer(t)

	url := strings.Replace(srv.URL, "http", "ws", 1) + "/ws?token=not-a-token"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial with a bad token should fail")
	}
	if resp != nil && resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
	if hub.OnlineCount() != 0 {
		t.Errorf("no connection should be registered, got %d", hub.OnlineCount())
	}
}
