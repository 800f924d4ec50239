// Package config loads process configuration from the environment, with a
// .env file honored in development.
package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Config is everything the server needs to start.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":3001".
	Addr string

	// MongoURI is the score database. Empty selects the in-memory store.
	MongoURI string

	// MongoDatabase holds both score collections.
	MongoDatabase string

	// NatsURL enables lifecycle event publishing when set.
	NatsURL string
}

// Load reads the environment. A missing .env file is not an error; deployed
// processes configure through real environment variables.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	return Config{
		Addr:          getenv("ADDR", ":3001"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getenv("MONGO_DB", "game"),
		NatsURL:       os.Getenv("NATS_URL"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
