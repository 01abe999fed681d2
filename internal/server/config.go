package server

import (
	"os"
	"strconv"
	"time"
)

// Config holds the server settings. [LoadConfig] reads them from the
// environment.
type Config struct {
	Addr         string
	RedisURL     string        // shared cache and sessions when set
	CacheDir     string        // file cache when RedisURL is empty
	CacheTTL     time.Duration // lifetime of cached layouts and artifacts
	KeyScope     string        // prefix for cache keys, empty for none
	SessionTTL   time.Duration
	SessionDir   string // file sessions when RedisURL is empty, memory otherwise
	MaxBodyBytes int64
}

// LoadConfig reads the configuration from POOLKIT_* environment variables.
func LoadConfig() Config {
	return Config{
		Addr:         getenv("POOLKIT_ADDR", ":8080"),
		RedisURL:     getenv("POOLKIT_REDIS_URL", ""),
		CacheDir:     getenv("POOLKIT_CACHE_DIR", ""),
		CacheTTL:     time.Duration(getenvInt("POOLKIT_CACHE_TTL_SECONDS", 7*24*3600)) * time.Second,
		KeyScope:     getenv("POOLKIT_KEY_SCOPE", ""),
		SessionTTL:   time.Duration(getenvInt("POOLKIT_SESSION_TTL_SECONDS", 24*3600)) * time.Second,
		SessionDir:   getenv("POOLKIT_SESSION_DIR", ""),
		MaxBodyBytes: int64(getenvInt("POOLKIT_MAX_BODY_BYTES", 1<<20)),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
