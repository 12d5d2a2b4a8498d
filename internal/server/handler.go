package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The web client is served from the same process; other origins are allowed for local tools.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWs upgrades the request and registers the connection with the hub.
// The client gets its ID here, before any message can reference it.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection from %s: %v", r.RemoteAddr, err)
		return
	}

	client := newClient(hub, conn)
	hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}
