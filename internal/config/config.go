package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration, loaded from the environment.
type Config struct {
	Port      string
	DBPath    string
	APIKey    string
	JWTSecret string

	IngestWorkers int
	IngestTimeout time.Duration
	MaxBodyMB     int64
}

// Load reads the configuration from environment variables.
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/potholes.db"
	}

	return &Config{
		Port:          port,
		DBPath:        dbPath,
		APIKey:        os.Getenv("API_KEY"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		IngestWorkers: envInt("INGEST_WORKERS", 4),
		IngestTimeout: time.Duration(envInt("INGEST_TIMEOUT_S", 60)) * time.Second,
		MaxBodyMB:     int64(envInt("MAX_BODY_MB", 40)),
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
