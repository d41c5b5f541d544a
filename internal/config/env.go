package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// ServerEnv holds the server settings read from the environment.
type ServerEnv struct {
	Addr        string
	DBType      string // "sqlite" or "postgres"
	DBPath      string
	DatabaseURL string
	GradingURL  string
	LogLevel    string
}

// LoadEnv merges the given .env files (default ./.env) into the process
// environment and reads the server settings. Missing files are ignored;
// variables already set in the environment win.
func LoadEnv(files ...string) (ServerEnv, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return ServerEnv{}, err
		}
	}

	return ServerEnv{
		Addr:        getEnv("BOMBER_ADDR", ":8000"),
		DBType:      getEnv("BOMBER_DB_TYPE", "sqlite"),
		DBPath:      getEnv("BOMBER_DB", "~/.bomber/scores.db"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		GradingURL:  getEnv("BOMBER_GRADING_URL", ""),
		LogLevel:    getEnv("BOMBER_LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
