// Package api mounts the HTTP surface: the websocket endpoint the game
// clients speak, plus a small read-only REST view over the leaderboards.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"arcadehub/internal/score"
)

const (
	defaultScoreLimit = 50
	maxScoreLimit     = 200

	queryTimeout = 5 * time.Second
)

// Deps are the backends the router exposes.
type Deps struct {
	// WS upgrades a request into a game connection.
	WS http.HandlerFunc

	PuzzleScores score.Store
	PaddleScores score.Store
}

// NewRouter builds the gin engine with permissive CORS; the browser client
// is served from its own origin.
func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/ws", gin.WrapF(d.WS))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", handleHealth)
		apiGroup.GET("/scores/puzzle", handleScores(d.PuzzleScores))
		apiGroup.GET("/scores/paddle", handleScores(d.PaddleScores))
	}

	return r
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func handleScores(store score.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultScoreLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = min(n, maxScoreLimit)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
		defer cancel()
		entries, err := store.Top(ctx, int64(limit))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard unavailable"})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}
