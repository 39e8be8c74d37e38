// Package config loads server settings from the environment. A .env file in
// the working directory is read first when present; variables already set
// in the environment win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	Port       int
	DBPath     string
	StaticPath string

	JWTSecret     string
	TokenDuration time.Duration

	// RedisAddr selects the Redis purchase cache. Empty means in-memory.
	RedisAddr string
	CacheTTL  time.Duration

	RateLimitCapacity int
	RateLimitRefill   time.Duration

	LogLevel  string
	LogFormat string
}

const devSecret = "dev-secret-change-me"

// Load reads configuration from environment variables with reasonable defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Config{
		DBPath:     getEnv("DB_PATH", "./data/warikan.db"),
		StaticPath: getEnv("STATIC_PATH", "../frontend/static"),
		JWTSecret:  getEnv("JWT_SECRET", devSecret),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.Port, err = getInt("PORT", 8080); err != nil {
		return Config{}, err
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("PORT %d out of range", cfg.Port)
	}
	if cfg.TokenDuration, err = getDuration("TOKEN_DURATION", 7*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitCapacity, err = getInt("RATE_LIMIT_CAPACITY", 120); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRefill, err = getDuration("RATE_LIMIT_REFILL", time.Minute); err != nil {
		return Config{}, err
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	return cfg, nil
}

// UsesDevSecret reports whether tokens are signed with the built-in secret.
func (c Config) UsesDevSecret() bool {
	return c.JWTSecret == devSecret
}

// Addr is the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return v, nil
}
