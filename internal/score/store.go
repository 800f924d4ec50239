// Package score persists and retrieves high scores. The rest of the system
// only sees the Store contract; gameplay never blocks on it and tolerates
// its failures.
package score

import (
	"context"
	"errors"
	"time"
)

// ErrPersistence wraps any storage failure. Callers log it and move on;
// the game-over flow tolerates losing a score.
var ErrPersistence = errors.New("score persistence failure")

// Entry is one high-score record.
type Entry struct {
	Name  string    `bson:"name" json:"name"`
	Score int       `bson:"score" json:"score"`
	Date  time.Time `bson:"date" json:"-"`
}

// Store is the narrow contract to the score database.
type Store interface {
	// Insert records a score. Scores of zero or less are skipped silently.
	Insert(ctx context.Context, name string, score int) error

	// Top returns up to n entries ordered by score descending.
	Top(ctx context.Context, n int64) ([]Entry, error)
}
