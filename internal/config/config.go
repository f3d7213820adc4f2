// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime settings, loaded from environment variables.
// An .env file is read by godotenv/autoload in cmd/server before Load runs.
type Config struct {
	Port string

	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string
	PostgresDB       string

	RedisAddr string
	RedisDB   int

	Game GameConfig
}

// GameConfig holds the tunable limits for tournament sessions.
type GameConfig struct {
	// CodeLength is the length of the human-entered join code.
	CodeLength int
	// CodeAlphabet excludes confusable characters (0/O, 1/I).
	CodeAlphabet string
	// CodeAttempts bounds retries when a generated code collides.
	CodeAttempts int

	MinPlayers int
	MaxPlayers int

	MinItems int
	MaxItems int
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		PostgresUser:     getEnv("POSTGRES_USER", "knockvote"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "knockvote"),
		PostgresHost:     getEnv("PG_HOST", "localhost"),
		PostgresPort:     getEnv("PG_PORT", "5432"),
		PostgresDB:       getEnv("PG_DATABASE", "knockvote"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),

		Game: GameConfig{
			CodeLength:   getEnvInt("SESSION_CODE_LENGTH", 6),
			CodeAlphabet: getEnv("SESSION_CODE_ALPHABET", "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"),
			CodeAttempts: getEnvInt("SESSION_CODE_ATTEMPTS", 10),
			MinPlayers:   getEnvInt("MIN_PLAYERS_PER_SESSION", 2),
			MaxPlayers:   getEnvInt("MAX_PLAYERS_PER_SESSION", 100),
			MinItems:     getEnvInt("MIN_ITEMS_PER_COMPETITION", 4),
			MaxItems:     getEnvInt("MAX_ITEMS_PER_COMPETITION", 128),
		},
	}
}

// PostgresURL assembles the pgx connection string.
func (c Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
