package session

import (
	"fmt"
	"strings"
	"time"

	"arcadehub/internal/game/paddle"
	"arcadehub/internal/network"
	"arcadehub/internal/session/message"
)

// Mode tags a room with its game family and multiplayer flavor.
type Mode string

const (
	ModePuzzleSolo   Mode = "puzzle_solo"
	ModePuzzleLocal  Mode = "puzzle_local"
	ModePuzzleVersus Mode = "puzzle_versus"
	ModePaddleSolo   Mode = "paddle_solo"
	ModePaddleLocal  Mode = "paddle_local"
	ModePaddleVersus Mode = "paddle_versus"
)

// ParseMode validates a client-supplied mode string.
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(s); m {
	case ModePuzzleSolo, ModePuzzleLocal, ModePuzzleVersus,
		ModePaddleSolo, ModePaddleLocal, ModePaddleVersus:
		return m, true
	}
	return "", false
}

func (m Mode) IsPaddle() bool { return strings.HasPrefix(string(m), "paddle_") }
func (m Mode) IsPuzzle() bool { return strings.HasPrefix(string(m), "puzzle_") }
func (m Mode) IsSolo() bool   { return strings.HasSuffix(string(m), "_solo") }
func (m Mode) IsLocal() bool  { return strings.HasSuffix(string(m), "_local") }
func (m Mode) IsVersus() bool { return strings.HasSuffix(string(m), "_versus") }

// Capacity is the seated-roster bound for the mode.
func (m Mode) Capacity() int {
	switch {
	case m.IsSolo():
		return 1
	case m.IsPaddle():
		return 2
	default:
		return 7
	}
}

// Room lifecycle states.
const (
	StateWaiting  = "waiting"
	StatePlaying  = "playing"
	StateGameOver = "gameover"
)

// Room is one multiplayer session. All fields are owned by the dispatch
// goroutine; nothing here needs a lock.
type Room struct {
	Code  string
	Host  message.Sender
	Mode  Mode
	State string

	Paused bool

	// Players is the seated roster in join order. Spectators (local-mode
	// hosts, extra joins to solo rooms) are members but never players.
	Players []*Player

	// members is the broadcast audience: players, host and spectators.
	members map[message.Sender]struct{}

	// ready holds identities that have confirmed for the next game.
	ready map[message.Sender]struct{}

	playerCounter int

	// timers are the live autonomous-advancement handles: one drop ticker
	// per puzzle player, one physics loop per paddle room. Always stopped
	// before the room changes shape.
	timers []*TickerHandle

	// Match holds the paddle state for paddle modes; nil otherwise.
	Match *paddle.Match

	lastActive time.Time
}

func newRoom(code string, mode Mode, host message.Sender, now time.Time) *Room {
	r := &Room{
		Code:       code,
		Host:       host,
		Mode:       mode,
		State:      StateWaiting,
		members:    make(map[message.Sender]struct{}),
		ready:      make(map[message.Sender]struct{}),
		lastActive: now,
	}
	r.members[host] = struct{}{}
	return r
}

func (r *Room) touch(now time.Time) { r.lastActive = now }

// addPlayer seats a connection with the next never-reused id.
func (r *Room) addPlayer(conn message.Sender, name string) *Player {
	r.playerCounter++
	if name == "" {
		name = fmt.Sprintf("Player %d", r.playerCounter)
	}
	p := &Player{ID: r.playerCounter, Conn: conn, Name: name}
	r.Players = append(r.Players, p)
	r.members[conn] = struct{}{}
	return p
}

func (r *Room) removePlayer(p *Player) {
	for i, other := range r.Players {
		if other == p {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			break
		}
	}
	delete(r.members, p.Conn)
	delete(r.ready, p.Conn)
}

func (r *Room) playerByConn(conn message.Sender) *Player {
	for _, p := range r.Players {
		if p.Conn == conn {
			return p
		}
	}
	return nil
}

func (r *Room) isMember(conn message.Sender) bool {
	_, ok := r.members[conn]
	return ok
}

// broadcast fans a message out to every member. Slow members just miss the
// update; the dispatch goroutine never blocks on a send.
func (r *Room) broadcast(msg network.Message) {
	for m := range r.members {
		m.TrySend(msg)
	}
}

func (r *Room) stats() network.Message {
	infos := make([]message.PlayerInfo, 0, len(r.Players))
	for _, p := range r.Players {
		infos = append(infos, message.PlayerInfo{ID: p.ID, Username: p.Name})
	}
	return message.RoomStats(infos)
}

// addTimer registers an autonomous-advancement handle with the room.
func (r *Room) addTimer(h *TickerHandle) {
	r.timers = append(r.timers, h)
}

// clearTimers stops every live timer. Called on start, restart, game over
// and destruction so no ticker is ever left dangling.
func (r *Room) clearTimers() {
	for _, t := range r.timers {
		t.Stop()
	}
	r.timers = nil
}

func (r *Room) resetReady() {
	r.ready = make(map[message.Sender]struct{})
}
