package session

import (
	"encoding/json"

	"arcadehub/internal/game/paddle"
	"arcadehub/internal/session/message"
)

type inputPayload struct {
	RoomCode string `json:"roomCode"`
	Action   string `json:"action"`
}

func (h *GameHandler) handleInput(s *PlayerSession, payload json.RawMessage) {
	var p inputPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.Conn.TrySend(message.Error("malformed input payload"))
		return
	}
	room, ok := h.roomForCommand(s, p.RoomCode)
	if !ok {
		return
	}
	// Inputs outside an active game are dropped without complaint so
	// buffered keystrokes around pause or game over stay harmless.
	if room.State != StatePlaying || room.Paused || !room.Mode.IsPuzzle() {
		return
	}

	player := room.playerByConn(s.Conn)
	if player == nil {
		if room.Mode.IsSolo() && len(room.Players) == 1 {
			// Solo rooms route every member's input to the one seat, so
			// the spectating creator of an embedded board can drive it.
			player = room.Players[0]
		} else {
			return
		}
	}
	eng := player.Game
	if eng == nil || eng.GameOver() {
		return
	}

	changed := false
	switch p.Action {
	case "left":
		changed = eng.Move(-1, 0)
	case "right":
		changed = eng.Move(1, 0)
	case "down":
		changed = eng.Move(0, 1)
	case "rotate":
		eng.Rotate()
		changed = true
	case "drop":
		eng.HardDrop()
		h.transferGarbage(room, player)
		changed = true
	default:
		return
	}

	if changed {
		h.sendGameState(room)
	}
	if eng.GameOver() {
		h.checkPuzzleOver(room)
	}
}

type paddleInputPayload struct {
	RoomCode  string `json:"roomCode"`
	Direction string `json:"direction"`
	Pressed   bool   `json:"pressed"`

	// Side disambiguates the paddle in local mode, where one connection
	// drives both. Other modes can omit it.
	Side string `json:"side,omitempty"`
}

func (h *GameHandler) handlePaddleInput(s *PlayerSession, payload json.RawMessage) {
	var p paddleInputPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.Conn.TrySend(message.Error("malformed paddleInput payload"))
		return
	}
	room, ok := h.roomForCommand(s, p.RoomCode)
	if !ok {
		return
	}
	if room.State != StatePlaying || room.Paused || room.Match == nil {
		return
	}

	dir := paddle.Direction(p.Direction)
	if dir != paddle.DirUp && dir != paddle.DirDown {
		return
	}

	// In local mode one connection drives both paddles and must name the
	// side; otherwise the sender's own seat is the only legal target.
	side := paddle.Side(p.Side)
	if room.Mode.IsLocal() {
		if side != paddle.SideLeft && side != paddle.SideRight {
			return
		}
	} else {
		player := room.playerByConn(s.Conn)
		if player == nil {
			return
		}
		seat, ok := room.Match.SideOf(player.ID)
		if !ok || (side != "" && side != seat) {
			return
		}
		side = seat
	}
	room.Match.SetSideInput(side, dir, p.Pressed)
}

func (h *GameHandler) handlePause(s *PlayerSession, payload json.RawMessage) {
	var p roomCodePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.Conn.TrySend(message.Error("malformed pauseGame payload"))
		return
	}
	room, ok := h.roomForCommand(s, p.RoomCode)
	if !ok {
		return
	}
	if room.State != StatePlaying || room.Paused {
		return
	}

	room.Paused = true
	if room.Match != nil {
		room.Match.SetPaused(true)
	}
	room.broadcast(message.GamePaused())

	// Solo players see the leaderboard while paused.
	if room.Mode.IsSolo() {
		store := h.puzzleScores
		if room.Mode.IsPaddle() {
			store = h.paddleScores
		}
		h.broadcastHighScores(room, store)
	}
}

func (h *GameHandler) handleUnpause(s *PlayerSession, payload json.RawMessage) {
	var p roomCodePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.Conn.TrySend(message.Error("malformed unpauseGame payload"))
		return
	}
	room, ok := h.roomForCommand(s, p.RoomCode)
	if !ok {
		return
	}
	if room.State != StatePlaying || !room.Paused {
		return
	}

	room.Paused = false
	if room.Match != nil {
		room.Match.SetPaused(false)
	}
	room.broadcast(message.GameUnpaused())
}

func (h *GameHandler) handleEndGame(s *PlayerSession, payload json.RawMessage) {
	var p roomCodePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.Conn.TrySend(message.Error("malformed endGame payload"))
		return
	}
	room, ok := h.roomForCommand(s, p.RoomCode)
	if !ok {
		return
	}
	if room.State != StatePlaying {
		return
	}

	if room.Mode.IsPaddle() {
		var out paddle.Outcome
		if room.Mode.IsSolo() {
			out.Solo = true
		} else if leader := room.Match.Leader(); leader != nil {
			out.WinnerID = leader.ID
			out.WinnerSide = leader.Side
			out.WinnerName = leader.Name
		}
		h.finishPaddle(room, &out)
		return
	}

	// Ending a puzzle game crowns the caller when seated, otherwise the
	// highest score on the board.
	winner := room.playerByConn(s.Conn)
	if winner == nil {
		winner = bestPuzzlePlayer(room)
	}
	h.finishPuzzle(room, winner)
}

func bestPuzzlePlayer(room *Room) *Player {
	var best *Player
	for _, rp := range room.Players {
		if rp.Game == nil {
			continue
		}
		if best == nil || rp.Game.Score() > best.Game.Score() {
			best = rp
		}
	}
	return best
}
