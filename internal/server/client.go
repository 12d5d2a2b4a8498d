package server

import (
	"encoding/json"
	"log"
	"time"

	"skat-game/internal/protocol"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024 // client messages are small JSON envelopes
	sendBufferSize = 256
)

// Client is one websocket connection; after create_table or join_table it is
// also a seat at a table.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	ID   string // doubles as the player ID at the table
	Name string // set on create_table / join_table; only the hub's Run goroutine touches it
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		ID:   uuid.NewString(),
	}
}

// ReadPump decodes envelopes from the connection and hands them to the hub.
// A missing pong within pongWait ends the connection.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected close from client %s (%s): %v", c.ID, c.conn.RemoteAddr(), err)
			}
			return
		}

		var msg protocol.Message
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			log.Printf("Error unmarshalling message from client %s: %v", c.ID, err)
			c.hub.sendErrorToClient(c, "Malformed message.")
			continue
		}

		if msg.Type != protocol.TypePing {
			log.Printf("Received message type '%s' from client %s", msg.Type, c.ID)
		}
		c.hub.processMessage <- clientMessage{client: c, message: msg}
	}
}

// WritePump drains the send buffer and keeps the connection alive with pings.
// The hub closes send when it forgets the client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Write error to client %s: %v", c.ID, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Ping to client %s failed: %v", c.ID, err)
				return
			}
		}
	}
}
