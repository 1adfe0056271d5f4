// Package llm provides the provider abstraction and backend callers for
// ticket generation. Each supported provider gets one Client
// implementation; the orchestration layer is provider-agnostic.
package llm

import (
	"os"
	"strconv"
	"time"

	"github.com/jonathan/ticket-drafter/internal/types"
)

// Default sampling and budget values, shared by both providers.
const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 2500
	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 1
)

// ProviderConfig holds the per-provider generation settings. Loaded
// once from the environment at startup and treated as read-only for the
// process lifetime.
type ProviderConfig struct {
	Provider      types.Provider
	APIKey        string
	BaseURL       string // OpenRouter only
	PrimaryModel  string
	FallbackModel string // empty disables fallback
	Temperature   float64
	MaxTokens     int
	Timeout       time.Duration // budget per outbound call
	MaxRetries    int           // same-model retries after malformed output
}

// ModelChain returns the ordered models to attempt: primary first, then
// the fallback when one is configured.
func (c ProviderConfig) ModelChain() []string {
	if c.FallbackModel == "" {
		return []string{c.PrimaryModel}
	}
	return []string{c.PrimaryModel, c.FallbackModel}
}

// LoadOpenRouterConfig loads the OpenRouter provider configuration from
// environment variables.
func LoadOpenRouterConfig() ProviderConfig {
	return ProviderConfig{
		Provider:      types.ProviderOpenRouter,
		APIKey:        os.Getenv("OPENROUTER_API_KEY"),
		BaseURL:       getEnvString("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		PrimaryModel:  getEnvString("OPENROUTER_PRIMARY_MODEL", "qwen/qwen-2.5-7b-instruct"),
		FallbackModel: getEnvString("OPENROUTER_FALLBACK_MODEL", "meta-llama/llama-3.2-3b-instruct"),
		Temperature:   getEnvFloat("OPENROUTER_TEMPERATURE", defaultTemperature),
		MaxTokens:     getEnvInt("OPENROUTER_MAX_TOKENS", defaultMaxTokens),
		Timeout:       getEnvDuration("OPENROUTER_API_TIMEOUT", defaultTimeout),
		MaxRetries:    getEnvInt("OPENROUTER_MAX_RETRIES", defaultMaxRetries),
	}
}

// LoadGeminiConfig loads the Gemini provider configuration from
// environment variables.
func LoadGeminiConfig() ProviderConfig {
	return ProviderConfig{
		Provider:      types.ProviderGemini,
		APIKey:        os.Getenv("GOOGLE_GEMINI_API_KEY"),
		PrimaryModel:  getEnvString("GEMINI_MODEL", "gemini-2.5-flash"),
		FallbackModel: getEnvString("GEMINI_FALLBACK_MODEL", "gemini-2.5-flash-lite"),
		Temperature:   getEnvFloat("GEMINI_TEMPERATURE", defaultTemperature),
		MaxTokens:     getEnvInt("GEMINI_MAX_TOKENS", defaultMaxTokens),
		Timeout:       getEnvDuration("GEMINI_API_TIMEOUT", defaultTimeout),
		MaxRetries:    getEnvInt("GEMINI_MAX_RETRIES", defaultMaxRetries),
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets an environment variable as a float with a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
