package score

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names for the two game families.
const (
	PuzzleCollection = "score"
	PaddleCollection = "pong_score"
)

// Mongo stores entries in one MongoDB collection. The collection is assumed
// to carry a descending index on score.
type Mongo struct {
	coll *mongo.Collection
}

// NewMongo wraps a collection of the given database.
func NewMongo(db *mongo.Database, collection string) *Mongo {
	return &Mongo{coll: db.Collection(collection)}
}

func (m *Mongo) Insert(ctx context.Context, name string, score int) error {
	if score <= 0 {
		return nil
	}
	if name == "" {
		name = "Anonymous"
	}
	_, err := m.coll.InsertOne(ctx, Entry{Name: name, Score: score, Date: time.Now()})
	if err != nil {
		return fmt.Errorf("%w: insert: %v", ErrPersistence, err)
	}
	return nil
}

func (m *Mongo) Top(ctx context.Context, n int64) ([]Entry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}}).
		SetLimit(n).
		SetProjection(bson.D{{Key: "name", Value: 1}, {Key: "score", Value: 1}})

	cur, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find: %v", ErrPersistence, err)
	}
	defer cur.Close(ctx)

	var entries []Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrPersistence, err)
	}
	return entries, nil
}
