package session

import (
	"encoding/json"
	"log/slog"
	"time"

	"arcadehub/internal/events"
	"arcadehub/internal/game/paddle"
	"arcadehub/internal/session/message"
)

type createRoomPayload struct {
	Mode        string `json:"mode"`
	DisplayName string `json:"displayName"`
	HostPlays   bool   `json:"hostPlays"`
}

func (h *GameHandler) handleCreateRoom(s *PlayerSession, payload json.RawMessage) {
	var p createRoomPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.Conn.TrySend(message.Error("malformed createRoom payload"))
		return
	}
	mode, ok := ParseMode(p.Mode)
	if !ok {
		s.Conn.TrySend(message.Error("unknown mode: " + p.Mode))
		return
	}
	if s.Room != nil {
		s.Conn.TrySend(message.Error("leave your current room first"))
		return
	}

	room := h.registry.Create(mode, s.Conn, h.clock.Now())
	s.Room = room
	s.Conn.TrySend(message.RoomCreated(room.Code))
	slog.Info("room created", "room", room.Code, "mode", mode, "host", s.Conn.ID())

	if mode.IsPaddle() {
		h.attachMatch(room)
	}

	// Solo: the host is the only player. Local: the host spectates and
	// only displays the boards. Versus: the host plays when asked to.
	if mode.IsSolo() || (mode.IsVersus() && p.HostPlays) {
		player := room.addPlayer(s.Conn, p.DisplayName)
		h.seatInMatch(room, player)
		s.Conn.TrySend(message.PlayerJoined(player.ID, player.Name))
	}

	room.broadcast(room.stats())
}

type joinRoomPayload struct {
	RoomCode    string `json:"roomCode"`
	DisplayName string `json:"displayName"`
}

func (h *GameHandler) handleJoinRoom(s *PlayerSession, payload json.RawMessage) {
	var p joinRoomPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.Conn.TrySend(message.Error("malformed joinRoom payload"))
		return
	}
	if s.Room != nil {
		s.Conn.TrySend(message.Error("leave your current room first"))
		return
	}
	room, ok := h.registry.Get(p.RoomCode)
	if !ok {
		s.Conn.TrySend(message.Error("Room not found"))
		return
	}
	room.touch(h.clock.Now())

	if room.State != StateWaiting {
		s.Conn.TrySend(message.Error("Game already started"))
		return
	}

	// Solo rooms seat exactly one player; later joins watch the game.
	if room.Mode.IsSolo() {
		room.members[s.Conn] = struct{}{}
		s.Room = room
		s.Conn.TrySend(message.JoinedRoom(message.JoinedRoomPayload{
			RoomCode:    room.Code,
			PlayerIndex: 1,
			Mode:        string(room.Mode),
			Spectator:   true,
		}))
		return
	}

	if len(room.Players) >= room.Mode.Capacity() {
		s.Conn.TrySend(message.Error("Room is full"))
		return
	}

	player := room.addPlayer(s.Conn, p.DisplayName)
	h.seatInMatch(room, player)
	s.Room = room

	ids := make([]int, 0, len(room.Players))
	for _, rp := range room.Players {
		ids = append(ids, rp.ID)
	}
	s.Conn.TrySend(message.JoinedRoom(message.JoinedRoomPayload{
		RoomCode:       room.Code,
		PlayerIndex:    player.ID,
		Mode:           string(room.Mode),
		CurrentPlayers: ids,
	}))
	room.broadcast(message.PlayerJoined(player.ID, player.Name))
	room.broadcast(room.stats())
}

// seatInMatch attaches a paddle on the first free side, left before right.
// Puzzle players get their engine at game start instead.
func (h *GameHandler) seatInMatch(room *Room, player *Player) {
	if room.Match == nil {
		return
	}
	if side, ok := room.Match.FreeSide(); ok {
		room.Match.Seat(player.ID, side, player.Name)
	}
}

type roomCodePayload struct {
	RoomCode string `json:"roomCode"`
}

func (h *GameHandler) handlePlayerReady(s *PlayerSession, payload json.RawMessage) {
	var p roomCodePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.Conn.TrySend(message.Error("malformed playerReady payload"))
		return
	}
	room, ok := h.roomForCommand(s, p.RoomCode)
	if !ok {
		return
	}
	if room.State != StateWaiting && room.State != StateGameOver {
		return
	}

	room.ready[s.Conn] = struct{}{}
	room.Host.TrySend(message.PlayerReadyStatus(s.Conn.ID(), len(room.ready), len(room.Players)))

	if h.readyThresholdMet(room) {
		h.startGame(room)
	}
}

// readyThresholdMet applies the per-mode start rule.
func (h *GameHandler) readyThresholdMet(room *Room) bool {
	ready, seated := len(room.ready), len(room.Players)
	switch {
	case room.Mode == ModePuzzleSolo:
		return ready >= 1
	case room.Mode.IsPuzzle():
		return seated > 0 && ready == seated
	case room.Mode == ModePaddleSolo:
		return seated >= 1 && ready >= 1
	default: // paddle versus and local both need two sides committed
		return seated >= 2 && ready >= 2
	}
}

func (h *GameHandler) handleLeaveRoom(s *PlayerSession, payload json.RawMessage) {
	var p roomCodePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.Conn.TrySend(message.Error("malformed leaveRoom payload"))
		return
	}
	room, ok := h.registry.Get(p.RoomCode)
	if !ok || !room.isMember(s.Conn) {
		return
	}
	h.leave(s, room)
}

// leave handles both the explicit command and disconnect cleanup.
func (h *GameHandler) leave(s *PlayerSession, room *Room) {
	if room.Host == s.Conn {
		h.destroyRoom(room)
		return
	}

	player := room.playerByConn(s.Conn)
	delete(room.members, s.Conn)
	delete(room.ready, s.Conn)
	s.Room = nil

	if player == nil {
		return // spectator gone, roster untouched
	}

	room.removePlayer(player)
	if room.Match != nil {
		room.Match.Unseat(player.ID)
	}
	room.Host.TrySend(message.PlayerLeft(player.ID))

	switch {
	case len(room.Players) == 0:
		h.destroyRoom(room)
	case room.State == StatePlaying && !room.Mode.IsSolo() && len(room.Players) == 1:
		// Last player standing: the sole remaining seated player wins.
		// Spectating hosts never count here.
		last := room.Players[0]
		if room.Mode.IsPuzzle() {
			h.finishPuzzle(room, last)
		} else {
			h.finishPaddle(room, &paddle.Outcome{
				WinnerID:   last.ID,
				WinnerName: last.Name,
			})
		}
	default:
		room.broadcast(room.stats())
	}
}

// destroyRoom tears the room down: timers stopped, members notified and
// unbound, registry entry gone, lifecycle event published.
func (h *GameHandler) destroyRoom(room *Room) {
	room.clearTimers()
	room.broadcast(message.RoomClosed())
	for m := range room.members {
		if sess, ok := h.sessions[m]; ok && sess.Room == room {
			sess.Room = nil
		}
	}
	h.registry.Delete(room.Code)
	h.publisher.PublishRoomClosed(events.RoomClosed{
		RoomCode: room.Code,
		Mode:     string(room.Mode),
		At:       h.clock.Now(),
	})
	slog.Info("room closed", "room", room.Code, "mode", room.Mode)
}

func (h *GameHandler) handleRestartGame(s *PlayerSession, payload json.RawMessage) {
	var p roomCodePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.Conn.TrySend(message.Error("malformed restartGame payload"))
		return
	}
	room, ok := h.roomForCommand(s, p.RoomCode)
	if !ok {
		return
	}

	// The host may always restart; in solo and local rooms any seated
	// participant may too.
	allowed := room.Host == s.Conn ||
		((room.Mode.IsSolo() || room.Mode.IsLocal()) && room.playerByConn(s.Conn) != nil)
	if !allowed {
		s.Conn.TrySend(message.Error(ErrInvalidState.Error()))
		return
	}

	room.clearTimers()
	room.State = StateWaiting
	room.Paused = false
	room.resetReady()

	// Engines are replaced, never reset in place.
	for _, rp := range room.Players {
		rp.Game = nil
	}
	if room.Mode.IsPaddle() {
		h.attachMatch(room)
		for _, rp := range room.Players {
			h.seatInMatch(room, rp)
		}
	}

	room.broadcast(message.GameRestarted())
	room.broadcast(room.stats())
	slog.Info("room restarted", "room", room.Code)
}

// attachMatch gives the room a fresh paddle match and its 60 Hz loop. Any
// previous loop must already be stopped via clearTimers.
func (h *GameHandler) attachMatch(room *Room) {
	room.Match = paddle.NewMatch(room.Mode.IsSolo(), h.newRand())
	loop := h.sched.Every(time.Second/paddle.TickRate, func() {
		h.paddleTick(room)
	})
	room.addTimer(loop)
}
