package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/readhaven/readhaven/models"
	"github.com/readhaven/readhaven/services"
	"github.com/readhaven/readhaven/ws"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleNotificationSocket upgrades the connection and keeps it registered in
// the notification hub until the client goes away. Frames pushed through the
// hub are the only server-to-client traffic; inbound frames are drained.
func (s *Server) handleNotificationSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("notification socket upgrade: %v", err)
			return
		}

		s.NotificationHub.Register(conn, user.ID, user.IsAdmin())
		if err := s.AuthRepository.UpdateUserOnlineStatus(user.ID, true); err != nil {
			log.Printf("error marking user %d online: %v", user.ID, err)
		}

		go s.readPump(s.NotificationHub, conn, user)
	}
}

// handleChatSocket upgrades the connection into the chat hub. Clients may
// also post messages over the socket; they are persisted and fanned out the
// same way as REST-posted ones.
func (s *Server) handleChatSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("chat socket upgrade: %v", err)
			return
		}

		s.ChatHub.Register(conn, user.ID, user.IsAdmin())

		go s.chatReadPump(conn, user)
	}
}

// readPump drains inbound frames so pings and close frames are processed,
// and unregisters the connection when the client disconnects.
func (s *Server) readPump(hub *ws.Hub, conn *websocket.Conn, user *models.User) {
	defer func() {
		hub.Unregister(conn)
		// a replaced connection's pump must not mark a reconnected user offline
		if hub.IsOnline(user.ID) {
			return
		}
		if err := s.AuthRepository.UpdateUserOnlineStatus(user.ID, false); err != nil {
			log.Printf("error marking user %d offline: %v", user.ID, err)
		}
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go pingLoop(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

// chatReadPump accepts chat messages over the socket and routes them through
// the chat service.
func (s *Server) chatReadPump(conn *websocket.Conn, user *models.User) {
	defer s.ChatHub.Unregister(conn)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go pingLoop(conn)

	for {
		var request models.CreateMessageRequest
		if err := conn.ReadJSON(&request); err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		if request.Content == "" {
			continue
		}
		if _, apiErr := s.ChatService.CreateMessage(&request, user); apiErr != nil {
			log.Printf("chat socket message from user %d: %s", user.ID, apiErr.Message)
		}
	}
}

// pingLoop keeps the connection alive until a write fails.
func pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for range ticker.C {
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
			return
		}
	}
}

// compile-time checks that the hub satisfies the service-facing interfaces.
var (
	_ services.Notifier     = (*ws.Hub)(nil)
	_ services.ChatNotifier = (*ws.Hub)(nil)
)
