package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"arcadehub/internal/api"
	"arcadehub/internal/config"
	"arcadehub/internal/events"
	"arcadehub/internal/network"
	"arcadehub/internal/score"
	"arcadehub/internal/session"
)

const (
	roomIdleLimit     = 30 * time.Minute
	roomSweepInterval = time.Minute

	mongoDialTimeout = 10 * time.Second
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg := config.Load()

	puzzleScores, paddleScores, cleanup := connectScores(cfg)
	defer cleanup()

	publisher, err := events.Connect(cfg.NatsURL)
	if err != nil {
		slog.Error("nats connect failed", "url", cfg.NatsURL, "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	handler := &handlerHolder{}
	server := network.NewServer(handler)
	handler.GameHandler = session.NewGameHandler(session.Deps{
		Registry:     session.NewRegistry(),
		Clock:        clockwork.NewRealClock(),
		Dispatch:     server.Hub().Do,
		PuzzleScores: puzzleScores,
		PaddleScores: paddleScores,
		Publisher:    publisher,
	})
	server.Start()

	startRoomSweeper(server, handler.GameHandler)

	router := api.NewRouter(api.Deps{
		WS:           server.HandleWS,
		PuzzleScores: puzzleScores,
		PaddleScores: paddleScores,
	})

	slog.Info("listening", "addr", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// handlerHolder breaks the construction cycle between the hub, which needs
// its event handler up front, and the game handler, which dispatches onto
// the hub. The hub does not deliver events until Start, by which time the
// inner handler is set.
type handlerHolder struct {
	*session.GameHandler
}

func connectScores(cfg config.Config) (puzzle, paddle score.Store, cleanup func()) {
	if cfg.MongoURI == "" {
		slog.Info("no MONGO_URI set, scores are in-memory only")
		return score.NewMemory(), score.NewMemory(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoDialTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		slog.Error("mongo connect failed", "error", err)
		os.Exit(1)
	}
	if err := client.Ping(ctx, nil); err != nil {
		slog.Error("mongo ping failed", "error", err)
		os.Exit(1)
	}
	db := client.Database(cfg.MongoDatabase)
	cleanup = func() {
		_ = client.Disconnect(context.Background())
	}
	return score.NewMongo(db, score.PuzzleCollection), score.NewMongo(db, score.PaddleCollection), cleanup
}

// startRoomSweeper periodically posts an idle-room sweep onto the hub
// goroutine, where all session state lives.
func startRoomSweeper(server *network.Server, h *session.GameHandler) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		slog.Error("scheduler init failed", "error", err)
		os.Exit(1)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(roomSweepInterval),
		gocron.NewTask(func() {
			server.Hub().Do(func() {
				h.SweepIdleRooms(roomIdleLimit)
			})
		}),
	)
	if err != nil {
		slog.Error("sweep job init failed", "error", err)
		os.Exit(1)
	}
	sched.Start()
}
