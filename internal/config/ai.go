package config

import (
	"os"
	"time"
)

// AIConfig holds all enrichment-related configuration
type AIConfig struct {
	APIKey    string  `json:"-"` // Never serialize
	BaseURL   string  `json:"baseUrl"`
	Model     string  `json:"model"`
	TimeoutMS int     `json:"timeoutMs"` // Hard wall-clock budget for one enrichment call
	MaxTokens int     `json:"maxTokens"`
	MaxDelta  float64 `json:"maxDelta"` // Max points enrichment may move a section score
}

// DefaultAIConfig returns the AI configuration from the environment
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:    os.Getenv("GEMINI_API_KEY"),
		BaseURL:   getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		Model:     getEnv("GEMINI_MODEL_ENRICH", "gemini-2.0-flash"),
		TimeoutMS: getEnvInt("ENRICH_TIMEOUT_MS", 20000),
		MaxTokens: getEnvInt("ENRICH_MAX_TOKENS", 2048),
		MaxDelta:  getEnvFloat("ENRICH_MAX_DELTA", 15),
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// Timeout is the enrichment budget as a duration
func (c *AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// ModelEndpoint returns the full endpoint for the configured model
func (c *AIConfig) ModelEndpoint() string {
	return c.BaseURL + "/" + c.Model + ":generateContent"
}
