// Package events publishes room lifecycle events for external subscribers.
// The session emits an explicit event when a game ends or a room closes;
// anything listening on the bus (ops tooling, future score consumers)
// observes it without coupling to the websocket broadcast layer.
package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectGameOver   = "arcadehub.rooms.gameover"
	SubjectRoomClosed = "arcadehub.rooms.closed"
)

// GameOver describes a finished game in either family.
type GameOver struct {
	RoomCode   string    `json:"roomCode"`
	Mode       string    `json:"mode"`
	WinnerName string    `json:"winnerName,omitempty"`
	WinnerID   int       `json:"winnerId,omitempty"`
	SoloWin    bool      `json:"soloWin,omitempty"`
	Scores     []Score   `json:"scores,omitempty"`
	At         time.Time `json:"at"`
}

type Score struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// RoomClosed marks a destroyed room.
type RoomClosed struct {
	RoomCode string    `json:"roomCode"`
	Mode     string    `json:"mode"`
	At       time.Time `json:"at"`
}

// Publisher emits events over NATS. A nil Publisher is valid and silently
// drops everything, so an unset broker URL disables the feature outright.
type Publisher struct {
	nc *nats.Conn
}

// Connect dials the broker. An empty URL returns a nil (disabled) publisher.
func Connect(url string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	nc, err := nats.Connect(url,
		nats.Name("arcadehub"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{nc: nc}, nil
}

// Close drains the connection. Safe on nil.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
}

// PublishGameOver is fire-and-forget; failures are logged, never surfaced.
func (p *Publisher) PublishGameOver(ev GameOver) {
	p.publish(SubjectGameOver, ev)
}

// PublishRoomClosed is fire-and-forget.
func (p *Publisher) PublishRoomClosed(ev RoomClosed) {
	p.publish(SubjectRoomClosed, ev)
}

func (p *Publisher) publish(subject string, ev any) {
	if p == nil || p.nc == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("event marshal failed", "subject", subject, "err", err)
		return
	}
	if err := p.nc.Publish(subject, data); err != nil {
		slog.Warn("event publish failed", "subject", subject, "err", err)
	}
}
