// Package message builds the server→client notifications of the room
// protocol. Each constructor returns a ready-to-send network.Message so the
// session logic never touches JSON by hand.
package message

import (
	"encoding/json"

	"arcadehub/internal/game/paddle"
	"arcadehub/internal/network"
	"arcadehub/internal/score"
)

// Sender is anything that can receive a message. It decouples this package
// (and the session tests) from the concrete websocket client.
type Sender interface {
	// ID is the connection-scoped identity.
	ID() string

	// TrySend enqueues without blocking, reporting whether it fit.
	TrySend(msg network.Message) bool
}

// Notification types.
const (
	TypeError             = "RESPONSE_ERROR"
	TypeRoomCreated       = "ROOM_CREATED"
	TypeJoinedRoom        = "JOINED_ROOM"
	TypePlayerJoined      = "PLAYER_JOINED"
	TypePlayerLeft        = "PLAYER_LEFT"
	TypeRoomStats         = "ROOM_STATS"
	TypeRoomClosed        = "ROOM_CLOSED"
	TypeReadyToStart      = "READY_TO_START"
	TypePlayerReadyStatus = "PLAYER_READY_STATUS"
	TypeGameState         = "GAME_STATE"
	TypePaddleState       = "PADDLE_STATE"
	TypeGameOver          = "GAME_OVER"
	TypePaddleGameOver    = "PADDLE_GAME_OVER"
	TypeGamePaused        = "GAME_PAUSED"
	TypeGameUnpaused      = "GAME_UNPAUSED"
	TypeGameRestarted     = "GAME_RESTARTED"
	TypeHighScores        = "HIGH_SCORES"
)

func build(msgType string, payload any) network.Message {
	if payload == nil {
		return network.Message{Type: msgType}
	}
	data, _ := json.Marshal(payload)
	return network.Message{Type: msgType, Payload: data}
}

// ErrorPayload carries a single human-readable message; every client-facing
// failure uses it, whatever the cause.
type ErrorPayload struct {
	Error string `json:"error"`
}

func Error(msg string) network.Message {
	return build(TypeError, ErrorPayload{Error: msg})
}

type RoomCreatedPayload struct {
	RoomCode string `json:"roomCode"`
}

func RoomCreated(code string) network.Message {
	return build(TypeRoomCreated, RoomCreatedPayload{RoomCode: code})
}

type JoinedRoomPayload struct {
	RoomCode       string `json:"roomCode"`
	PlayerIndex    int    `json:"playerIndex"`
	Mode           string `json:"mode"`
	CurrentPlayers []int  `json:"currentPlayers,omitempty"`
	Spectator      bool   `json:"spectator,omitempty"`
}

func JoinedRoom(p JoinedRoomPayload) network.Message {
	return build(TypeJoinedRoom, p)
}

type PlayerJoinedPayload struct {
	PlayerIndex int    `json:"playerIndex"`
	Username    string `json:"username"`
}

func PlayerJoined(index int, username string) network.Message {
	return build(TypePlayerJoined, PlayerJoinedPayload{PlayerIndex: index, Username: username})
}

type PlayerLeftPayload struct {
	PlayerIndex int `json:"playerIndex"`
}

func PlayerLeft(index int) network.Message {
	return build(TypePlayerLeft, PlayerLeftPayload{PlayerIndex: index})
}

// PlayerInfo is one roster entry inside ROOM_STATS.
type PlayerInfo struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

type RoomStatsPayload struct {
	Count   int          `json:"count"`
	Players []PlayerInfo `json:"players"`
}

func RoomStats(players []PlayerInfo) network.Message {
	return build(TypeRoomStats, RoomStatsPayload{Count: len(players), Players: players})
}

func RoomClosed() network.Message {
	return build(TypeRoomClosed, nil)
}

func ReadyToStart() network.Message {
	return build(TypeReadyToStart, nil)
}

type PlayerReadyStatusPayload struct {
	ClientID     string `json:"clientId"`
	ReadyCount   int    `json:"readyCount"`
	TotalPlayers int    `json:"totalPlayers"`
}

func PlayerReadyStatus(clientID string, ready, total int) network.Message {
	return build(TypePlayerReadyStatus, PlayerReadyStatusPayload{
		ClientID:     clientID,
		ReadyCount:   ready,
		TotalPlayers: total,
	})
}

// PlayerBoard is one player's puzzle snapshot inside GAME_STATE, keyed by
// "p<id>" in the payload map.
type PlayerBoard struct {
	Board    any    `json:"board"`
	Score    int    `json:"score"`
	Level    int    `json:"level"`
	Lines    int    `json:"lines"`
	Next     string `json:"next"`
	Username string `json:"username"`
}

func GameState(boards map[string]PlayerBoard) network.Message {
	return build(TypeGameState, boards)
}

func PaddleState(snap paddle.Snapshot) network.Message {
	return build(TypePaddleState, snap)
}

// FinalScore is one row of the end-of-game scoreboard.
type FinalScore struct {
	Name  string `json:"name"`
	ID    int    `json:"id"`
	Score int    `json:"score"`
}

type GameOverPayload struct {
	WinnerID   int          `json:"winnerId"`
	WinnerName string       `json:"winnerName"`
	Scores     []FinalScore `json:"scores"`
}

func GameOver(winnerID int, winnerName string, scores []FinalScore) network.Message {
	return build(TypeGameOver, GameOverPayload{WinnerID: winnerID, WinnerName: winnerName, Scores: scores})
}

type PaddleGameOverPayload struct {
	WinnerID   int          `json:"winnerId,omitempty"`
	WinnerName string       `json:"winnerName,omitempty"`
	Side       string       `json:"side,omitempty"`
	Solo       bool         `json:"isSolo"`
	SoloWin    bool         `json:"soloWin"`
	Scores     []FinalScore `json:"scores"`
}

func PaddleGameOver(p PaddleGameOverPayload) network.Message {
	return build(TypePaddleGameOver, p)
}

func GamePaused() network.Message {
	return build(TypeGamePaused, nil)
}

func GameUnpaused() network.Message {
	return build(TypeGameUnpaused, nil)
}

func GameRestarted() network.Message {
	return build(TypeGameRestarted, nil)
}

type HighScoreEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func HighScores(entries []score.Entry) network.Message {
	out := make([]HighScoreEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, HighScoreEntry{Name: e.Name, Score: e.Score})
	}
	return build(TypeHighScores, out)
}
