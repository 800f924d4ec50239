package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"arcadehub/internal/events"
	"arcadehub/internal/game/paddle"
	"arcadehub/internal/game/puzzle"
	"arcadehub/internal/score"
	"arcadehub/internal/session/message"
)

const (
	// dropInterval is the puzzle gravity period. Speed scaling happens
	// inside the engine's scoring, not here.
	dropInterval = time.Second

	// scoreTimeout bounds every trip to the score store.
	scoreTimeout = 5 * time.Second

	leaderboardSize = 10
)

// startGame moves a room into the playing state with fresh engines. Any
// previous game's timers are stopped first, so starting from gameover is the
// same path as the first start.
func (h *GameHandler) startGame(room *Room) {
	room.clearTimers()
	room.resetReady()
	room.State = StatePlaying
	room.Paused = false
	slog.Info("game starting", "room", room.Code, "mode", room.Mode, "players", len(room.Players))

	if room.Mode.IsPuzzle() {
		for _, p := range room.Players {
			p.Game = puzzle.NewEngine(h.newRand())
			room.addTimer(h.sched.Every(dropInterval, func() {
				h.puzzleDropTick(room, p)
			}))
		}
		room.broadcast(message.ReadyToStart())
		h.sendGameState(room)
		return
	}

	h.attachMatch(room)
	for _, p := range room.Players {
		h.seatInMatch(room, p)
	}
	room.Match.Start()
	room.broadcast(message.ReadyToStart())
	room.broadcast(message.PaddleState(room.Match.Snapshot()))
}

// roomAlive guards deferred work against rooms destroyed or replaced since
// the work was scheduled. Identity is checked, not just the code.
func (h *GameHandler) roomAlive(room *Room) bool {
	got, ok := h.registry.Get(room.Code)
	return ok && got == room
}

// puzzleDropTick is one gravity step for one player's board. Each seated
// player has their own ticker driving this.
func (h *GameHandler) puzzleDropTick(room *Room, player *Player) {
	if !h.roomAlive(room) || room.State != StatePlaying || room.Paused {
		return
	}
	if player.Game == nil || player.Game.GameOver() || room.playerByConn(player.Conn) == nil {
		return
	}
	if !player.Game.Drop() {
		h.transferGarbage(room, player)
	}
	h.sendGameState(room)
	h.checkPuzzleOver(room)
}

// checkPuzzleOver ends the game as soon as any board has topped out. The
// winner is the highest-scoring player still alive; a solo top-out crowns
// its only player.
func (h *GameHandler) checkPuzzleOver(room *Room) {
	if room.State != StatePlaying {
		return
	}
	topped := false
	var alive []*Player
	for _, p := range room.Players {
		if p.Game == nil {
			continue
		}
		if p.Game.GameOver() {
			topped = true
		} else {
			alive = append(alive, p)
		}
	}
	if !topped {
		return
	}
	winner := bestScored(alive)
	if winner == nil {
		winner = bestPuzzlePlayer(room)
	}
	h.finishPuzzle(room, winner)
}

func bestScored(players []*Player) *Player {
	var best *Player
	for _, p := range players {
		if best == nil || p.Game.Score() > best.Game.Score() {
			best = p
		}
	}
	return best
}

// transferGarbage forwards a player's just-cleared lines to the opponent.
func (h *GameHandler) transferGarbage(room *Room, sender *Player) {
	h.sendGarbage(room, sender, sender.Game.TakeClearedLines())
}

// sendGarbage applies the penalty rule: only two-player versus rooms, n
// cleared lines send n-1 rows, except a quad which sends all four.
func (h *GameHandler) sendGarbage(room *Room, sender *Player, cleared int) {
	if !room.Mode.IsVersus() || len(room.Players) != 2 {
		return
	}
	garbage := garbageFor(cleared)
	if garbage <= 0 {
		return
	}
	for _, p := range room.Players {
		if p != sender && p.Game != nil && !p.Game.GameOver() {
			p.Game.AddGarbage(garbage)
		}
	}
}

// garbageFor maps cleared lines to garbage rows: one less than cleared,
// except a quad sends all four.
func garbageFor(cleared int) int {
	if cleared == 4 {
		return 4
	}
	return cleared - 1
}

// sendGameState broadcasts every board keyed by "p<id>".
func (h *GameHandler) sendGameState(room *Room) {
	boards := make(map[string]message.PlayerBoard, len(room.Players))
	for _, p := range room.Players {
		if p.Game == nil {
			continue
		}
		boards[fmt.Sprintf("p%d", p.ID)] = message.PlayerBoard{
			Board:    p.Game.Render(),
			Score:    p.Game.Score(),
			Level:    p.Game.Level(),
			Lines:    p.Game.Lines(),
			Next:     p.Game.NextType(),
			Username: p.Name,
		}
	}
	room.broadcast(message.GameState(boards))
}

// paddleTick advances the physics one frame and broadcasts the result.
func (h *GameHandler) paddleTick(room *Room) {
	if !h.roomAlive(room) || room.State != StatePlaying || room.Paused || room.Match == nil {
		return
	}
	out := room.Match.Step()
	room.broadcast(message.PaddleState(room.Match.Snapshot()))
	if out != nil {
		h.finishPaddle(room, out)
	}
}

func puzzleFinalScores(room *Room) []message.FinalScore {
	scores := make([]message.FinalScore, 0, len(room.Players))
	for _, p := range room.Players {
		if p.Game == nil {
			continue
		}
		scores = append(scores, message.FinalScore{Name: p.Name, ID: p.ID, Score: p.Game.Score()})
	}
	return scores
}

func paddleFinalScores(room *Room) []message.FinalScore {
	if room.Match == nil {
		return nil
	}
	snap := room.Match.Snapshot()
	scores := make([]message.FinalScore, 0, len(snap.Players))
	for _, p := range snap.Players {
		scores = append(scores, message.FinalScore{Name: p.Username, ID: p.ID, Score: p.Score})
	}
	return scores
}

// finishPuzzle moves a puzzle room to gameover and announces the winner.
// Solo runs are persisted and answered with the fresh leaderboard.
func (h *GameHandler) finishPuzzle(room *Room, winner *Player) {
	room.State = StateGameOver
	room.Paused = false
	room.clearTimers()

	var winnerID int
	var winnerName string
	if winner != nil {
		winnerID, winnerName = winner.ID, winner.Name
	}
	scores := puzzleFinalScores(room)
	room.broadcast(message.GameOver(winnerID, winnerName, scores))
	slog.Info("puzzle game over", "room", room.Code, "winner", winnerName)

	h.publisher.PublishGameOver(events.GameOver{
		RoomCode:   room.Code,
		Mode:       string(room.Mode),
		WinnerName: winnerName,
		WinnerID:   winnerID,
		Scores:     eventScores(scores),
		At:         h.clock.Now(),
	})

	if room.Mode == ModePuzzleSolo && winner != nil && winner.Game != nil {
		h.persistAndBroadcast(room, h.puzzleScores, winner.Name, winner.Game.Score())
	}
}

// finishPaddle moves a paddle room to gameover and announces the outcome.
func (h *GameHandler) finishPaddle(room *Room, out *paddle.Outcome) {
	room.State = StateGameOver
	room.Paused = false
	room.clearTimers()

	scores := paddleFinalScores(room)
	room.broadcast(message.PaddleGameOver(message.PaddleGameOverPayload{
		WinnerID:   out.WinnerID,
		WinnerName: out.WinnerName,
		Side:       string(out.WinnerSide),
		Solo:       room.Mode.IsSolo(),
		SoloWin:    out.SoloWin,
		Scores:     scores,
	}))
	slog.Info("paddle game over", "room", room.Code, "winner", out.WinnerName, "soloWin", out.SoloWin)

	h.publisher.PublishGameOver(events.GameOver{
		RoomCode:   room.Code,
		Mode:       string(room.Mode),
		WinnerName: out.WinnerName,
		WinnerID:   out.WinnerID,
		SoloWin:    out.SoloWin,
		Scores:     eventScores(scores),
		At:         h.clock.Now(),
	})

	if room.Mode == ModePaddleSolo && len(scores) > 0 {
		h.persistAndBroadcast(room, h.paddleScores, scores[0].Name, scores[0].Score)
	}
}

func eventScores(scores []message.FinalScore) []events.Score {
	out := make([]events.Score, 0, len(scores))
	for _, s := range scores {
		out = append(out, events.Score{Name: s.Name, Score: s.Score})
	}
	return out
}

// persistAndBroadcast saves one score and answers the room with the top of
// the leaderboard. Storage runs off the dispatch goroutine; only the final
// broadcast hops back, and it re-checks the room is still the same one.
func (h *GameHandler) persistAndBroadcast(room *Room, store score.Store, name string, points int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
		defer cancel()
		if err := store.Insert(ctx, name, points); err != nil {
			slog.Warn("score insert failed", "name", name, "error", err)
		}
		entries, err := store.Top(ctx, leaderboardSize)
		if err != nil {
			slog.Warn("leaderboard fetch failed", "error", err)
			return
		}
		h.dispatch(func() {
			if h.roomAlive(room) {
				room.broadcast(message.HighScores(entries))
			}
		})
	}()
}

// broadcastHighScores fetches the leaderboard without writing anything.
func (h *GameHandler) broadcastHighScores(room *Room, store score.Store) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
		defer cancel()
		entries, err := store.Top(ctx, leaderboardSize)
		if err != nil {
			slog.Warn("leaderboard fetch failed", "error", err)
			return
		}
		h.dispatch(func() {
			if h.roomAlive(room) {
				room.broadcast(message.HighScores(entries))
			}
		})
	}()
}
