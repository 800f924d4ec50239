package network

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// The browser client is served from a different origin in development,
	// so we accept any origin here and let the HTTP layer handle CORS.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Server owns the hub and upgrades HTTP requests into hub clients.
type Server struct {
	hub *Hub
}

// NewServer builds a server around the given game logic handler.
func NewServer(handler EventHandler) *Server {
	return &Server{hub: NewHub(handler)}
}

// Hub returns the dispatch hub, used to schedule work onto its goroutine.
func (s *Server) Hub() *Hub { return s.hub }

// Start launches the hub goroutine. Must be called once before serving.
func (s *Server) Start() {
	go s.hub.Run()
}

// HandleWS upgrades the request and registers the new client with the hub.
// It is an http.HandlerFunc so any router can mount it.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		conn: conn,
		hub:  s.hub,
		send: make(chan Message, 256),
	}

	client.hub.register <- client

	go client.writeLoop()
	go client.readLoop()
}
