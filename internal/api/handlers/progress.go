package handlers

import (
	"log"
	"net/http"

	"reviewradar/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ProgressWebSocket streams crawl progress events to the client.
func ProgressWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade progress websocket: %v", err)
		return
	}

	services.GlobalProgress.Subscribe(conn)
	defer services.GlobalProgress.Unsubscribe(conn)

	// Drain client frames until the connection drops; the server side only
	// pushes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
