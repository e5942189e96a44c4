package handlers

import (
	"log"
	"net/http"
	"posts/push"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const socketWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // no auth, the feed only carries post ids
	},
}

// PostEvents streams push.Event messages for every post change until the client goes away
func PostEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer conn.Close()

	// Events arrive on the push goroutine and pongs on the read loop, gorilla allows one writer at a time
	var writeLock sync.Mutex
	isConnected := true
	write := func(mt int, data []byte) bool {
		writeLock.Lock()
		defer writeLock.Unlock()
		if !isConnected {
			return false
		}
		_ = conn.SetWriteDeadline(time.Now().Add(socketWriteTimeout))
		if err := conn.WriteMessage(mt, data); err != nil {
			log.Println("write err:", err)
			isConnected = false
			return false
		}
		return true
	}
	unsubscribe := push.Subscribe(func(data []byte) bool {
		return write(websocket.TextMessage, data)
	})
	defer unsubscribe()
	// Main read cycle, only used for keep-alive and to notice disconnects
	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			writeLock.Lock()
			isConnected = false
			writeLock.Unlock()
			break
		}
		if string(message) == "ping" {
			write(mt, []byte("pong"))
		}
	}
}
