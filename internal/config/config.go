package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process configuration, read once at startup
type Config struct {
	Port         string
	LogLevel     string // debug, info, warn, error
	LogFormat    string // json, text
	CatalogPath  string // Empty uses the built-in catalog
	MaxBodyBytes int64
	RedisAddr    string // Empty disables the result cache
	CacheTTL     time.Duration
	JWTSecret    string // Empty disables client auth
	AI           *AIConfig
}

// Load reads the configuration from the environment
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		CatalogPath:  os.Getenv("CATALOG_PATH"),
		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		RedisAddr:    redisAddr(os.Getenv("REDIS_URI")),
		CacheTTL:     getEnvDuration("CACHE_TTL", time.Hour),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		AI:           DefaultAIConfig(),
	}
}

// CacheEnabled reports whether a Redis address was configured
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// AuthEnabled reports whether client tokens are required
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// redisAddr strips the redis:// scheme if present
func redisAddr(uri string) string {
	return strings.TrimPrefix(uri, "redis://")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultVal
}
