// File: /controllers/ws_controller.go
package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"crewcall-api/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origin filtering happens at the CORS layer
	},
}

// WSController upgrades authenticated clients onto the notification hub.
// Browsers cannot set headers on websocket requests, so the token is also
// accepted as a query parameter.
type WSController struct {
	hub       *services.NotificationHub
	jwtSecret string
}

func NewWSController(hub *services.NotificationHub, jwtSecret string) *WSController {
	return &WSController{hub: hub, jwtSecret: jwtSecret}
}

func (wc *WSController) Connect(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		tokenString = c.GetHeader("token")
	}

	accountID, err := wc.authenticate(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// Joining the room keyed by the account's own id. All writes, including
	// the welcome and pong below, go through the hub so they share the
	// connection's write lock with concurrent notification pushes.
	wc.hub.Register(accountID, conn)
	defer wc.hub.Unregister(accountID, conn)

	wc.hub.Send(accountID, "joinRoom", map[string]string{"room": accountID, "status": "connected"})

	// Read loop: pings are answered, a generic message is broadcast to all
	// connected clients, everything else is ignored. Returning closes the
	// connection.
	for {
		var msg services.HubMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}

		switch msg.Type {
		case "ping":
			wc.hub.Send(accountID, "pong", "pong")
		case "message":
			wc.hub.Broadcast("message", msg.Data)
		}
	}
}

func (wc *WSController) authenticate(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errors.New("missing token")
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(wc.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	accountID, _ := claims["account_id"].(string)
	if accountID == "" {
		return "", errors.New("invalid token")
	}
	return accountID, nil
}
