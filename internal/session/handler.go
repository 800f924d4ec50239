// Package session is the room orchestration state machine. It multiplexes
// every concurrent game over the single hub dispatch goroutine: commands,
// puzzle drop ticks and paddle physics steps all mutate room state
// run-to-completion, so nothing in this package is locked.
package session

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"

	"arcadehub/internal/events"
	"arcadehub/internal/network"
	"arcadehub/internal/score"
	"arcadehub/internal/session/message"
)

// Command types accepted from clients.
const (
	CmdCreateRoom  = "CREATE_ROOM"
	CmdJoinRoom    = "JOIN_ROOM"
	CmdPlayerReady = "PLAYER_READY"
	CmdInput       = "INPUT"
	CmdPaddleInput = "PADDLE_INPUT"
	CmdPauseGame   = "PAUSE_GAME"
	CmdUnpauseGame = "UNPAUSE_GAME"
	CmdEndGame     = "END_GAME"
	CmdLeaveRoom   = "LEAVE_ROOM"
	CmdRestartGame = "RESTART_GAME"
)

// commandFunc handles one decoded command for one session.
type commandFunc func(h *GameHandler, s *PlayerSession, payload json.RawMessage)

// GameHandler implements network.EventHandler and owns all session state.
type GameHandler struct {
	registry *Registry
	sessions map[message.Sender]*PlayerSession

	sched    *Scheduler
	clock    clockwork.Clock
	dispatch func(func())

	puzzleScores score.Store
	paddleScores score.Store
	publisher    *events.Publisher

	// newRand seeds each engine's random source. Injectable so tests can
	// replay piece sequences and launch angles.
	newRand func() *rand.Rand

	router map[string]commandFunc
}

// Deps carries everything the handler needs; nothing is reached ambiently.
type Deps struct {
	Registry     *Registry
	Clock        clockwork.Clock
	Dispatch     func(func())
	PuzzleScores score.Store
	PaddleScores score.Store
	Publisher    *events.Publisher
	NewRand      func() *rand.Rand
}

func NewGameHandler(d Deps) *GameHandler {
	h := &GameHandler{
		registry:     d.Registry,
		sessions:     make(map[message.Sender]*PlayerSession),
		clock:        d.Clock,
		dispatch:     d.Dispatch,
		puzzleScores: d.PuzzleScores,
		paddleScores: d.PaddleScores,
		publisher:    d.Publisher,
		newRand:      d.NewRand,
	}
	if h.newRand == nil {
		h.newRand = func() *rand.Rand {
			return rand.New(rand.NewSource(h.clock.Now().UnixNano()))
		}
	}
	h.sched = NewScheduler(d.Clock, d.Dispatch)
	h.router = map[string]commandFunc{
		CmdCreateRoom:  (*GameHandler).handleCreateRoom,
		CmdJoinRoom:    (*GameHandler).handleJoinRoom,
		CmdPlayerReady: (*GameHandler).handlePlayerReady,
		CmdInput:       (*GameHandler).handleInput,
		CmdPaddleInput: (*GameHandler).handlePaddleInput,
		CmdPauseGame:   (*GameHandler).handlePause,
		CmdUnpauseGame: (*GameHandler).handleUnpause,
		CmdEndGame:     (*GameHandler).handleEndGame,
		CmdLeaveRoom:   (*GameHandler).handleLeaveRoom,
		CmdRestartGame: (*GameHandler).handleRestartGame,
	}
	return h
}

// --- network.EventHandler ---

func (h *GameHandler) OnConnect(c *network.Client) {
	h.connect(c)
}

func (h *GameHandler) OnDisconnect(c *network.Client) {
	h.disconnect(c)
}

func (h *GameHandler) OnMessage(c *network.Client, msg network.Message) {
	h.handle(c, msg)
}

// --- core entry points, interface-typed for the tests ---

func (h *GameHandler) connect(conn message.Sender) {
	h.sessions[conn] = NewPlayerSession(conn)
	slog.Info("session created", "client", conn.ID(), "sessions", len(h.sessions))
}

func (h *GameHandler) disconnect(conn message.Sender) {
	s, ok := h.sessions[conn]
	if !ok {
		return
	}
	if s.Room != nil {
		h.leave(s, s.Room)
	}
	delete(h.sessions, conn)
	slog.Info("session removed", "client", conn.ID(), "sessions", len(h.sessions))
}

func (h *GameHandler) handle(conn message.Sender, msg network.Message) {
	s, ok := h.sessions[conn]
	if !ok {
		return // no session, nothing to route
	}
	cmd, found := h.router[msg.Type]
	if !found {
		conn.TrySend(message.Error("unknown command: " + msg.Type))
		return
	}
	cmd(h, s, msg.Payload)
}

// roomForCommand resolves the room a command targets and checks the caller
// belongs to it. Errors are reported to the caller, not returned.
func (h *GameHandler) roomForCommand(s *PlayerSession, code string) (*Room, bool) {
	room, ok := h.registry.Get(code)
	if !ok {
		s.Conn.TrySend(message.Error(ErrRoomNotFound.Error()))
		return nil, false
	}
	if !room.isMember(s.Conn) {
		s.Conn.TrySend(message.Error(ErrInvalidState.Error()))
		return nil, false
	}
	room.touch(h.clock.Now())
	return room, true
}

// SweepIdleRooms destroys rooms that saw no command for longer than maxIdle
// while not actively playing. It must run on the dispatch goroutine; the
// background job in cmd/server posts it there.
func (h *GameHandler) SweepIdleRooms(maxIdle time.Duration) {
	now := h.clock.Now()
	for _, room := range h.registry.Rooms() {
		if room.State == StatePlaying {
			continue
		}
		if now.Sub(room.lastActive) > maxIdle {
			slog.Info("sweeping idle room", "room", room.Code, "mode", room.Mode)
			h.destroyRoom(room)
		}
	}
}
