// internal/config/config.go
//
// Environment-driven configuration shared by the commands.
// main calls godotenv.Load() first, so a local .env file feeds the same
// variables.
//
// Environment variables (defaults in parentheses):
//
//	PORT (5175)                           HTTP listen port
//	LOG_LEVEL (info)                      zerolog level
//	DB_PATH ("")                          sqlite file; empty keeps sessions in memory
//	JWT_SECRET (dev_secret_change_me)     HMAC key for caller tokens
//	CLIENT_ORIGIN (http://localhost:5173) allowed CORS origin
//	DAILY_SALT (local_dev_salt)           salt for the daily puzzle pick
//	CROSSWORD_PUZZLES_DIR ("")            puzzle directory; empty uses embedded puzzles
//	SESSION_HISTORY (64)                  actions kept per session
//	CROSSWORD_LOG_FILE ("")               log destination for the terminal player
package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port           string
	LogLevel       string
	DBPath         string
	JWTSecret      string
	ClientOrigin   string
	DailySalt      string
	PuzzlesDir     string
	SessionHistory int
	LogFile        string
}

// Load reads the environment.
func Load() Config {
	return Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBPath:         getEnv("DB_PATH", ""),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		PuzzlesDir:     getEnv("CROSSWORD_PUZZLES_DIR", ""),
		SessionHistory: envInt("SESSION_HISTORY", 64),
		LogFile:        getEnv("CROSSWORD_LOG_FILE", ""),
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
