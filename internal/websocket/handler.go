package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the connection with the hub, optionally primes it with
// an initial message, and blocks until the peer goes away.
func ServeWs(hub *Hub, c *websocket.Conn, initial []byte) {
	client := &Client{ID: uuid.New(), Hub: hub, Conn: c, Send: make(chan []byte, sendBuffer)}
	client.Hub.register <- client

	if initial != nil {
		client.Send <- initial
	}

	go client.writePump()
	client.readPump()
}
