package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "LOG_FORMAT", "CATALOG_PATH", "MAX_BODY_BYTES",
		"REDIS_URI", "CACHE_TTL", "JWT_SECRET", "GEMINI_API_KEY", "ENRICH_TIMEOUT_MS", "ENRICH_MAX_DELTA"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.AuthEnabled())
	assert.False(t, cfg.AI.IsEnabled())
	assert.Equal(t, 20*time.Second, cfg.AI.Timeout())
	assert.Equal(t, 15.0, cfg.AI.MaxDelta)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_URI", "redis://cache:6379")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GEMINI_MODEL_ENRICH", "gemini-x")
	t.Setenv("ENRICH_TIMEOUT_MS", "1500")
	t.Setenv("ENRICH_MAX_DELTA", "10")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.AuthEnabled())
	assert.True(t, cfg.AI.IsEnabled())
	assert.Equal(t, 1500*time.Millisecond, cfg.AI.Timeout())
	assert.Equal(t, 10.0, cfg.AI.MaxDelta)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta/models/gemini-x:generateContent", cfg.AI.ModelEndpoint())
}

func TestMalformedNumbersFallBackToDefaults(t *testing.T) {
	t.Setenv("ENRICH_TIMEOUT_MS", "soon")
	t.Setenv("CACHE_TTL", "forever")

	cfg := Load()

	assert.Equal(t, 20*time.Second, cfg.AI.Timeout())
	assert.Equal(t, time.Hour, cfg.CacheTTL)
}
