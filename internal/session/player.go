package session

import (
	"arcadehub/internal/game/puzzle"
	"arcadehub/internal/session/message"
)

// Player is one seated roster entry. The id is room-scoped, assigned at
// join and never reused within the room. Game is nil in paddle modes, where
// the state lives in the room's match instead.
type Player struct {
	ID   int
	Conn message.Sender
	Name string
	Game *puzzle.Engine
}

// PlayerSession tracks one connection's place in the world. A connection is
// host, player or spectator of at most one room at a time.
type PlayerSession struct {
	Conn message.Sender
	Room *Room
}

func NewPlayerSession(conn message.Sender) *PlayerSession {
	return &PlayerSession{Conn: conn}
}
