package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled       bool
	Requests      int           // allowed requests per window
	Window        time.Duration // window size
	SweepInterval time.Duration // how often expired windows are pruned
	Whitelist     map[string]bool
	Blacklist     map[string]bool
}

// DefaultConfig returns the default limiter configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		Requests:      10,
		Window:        time.Minute,
		SweepInterval: 5 * time.Minute,
		Whitelist:     make(map[string]bool),
		Blacklist:     make(map[string]bool),
	}
}

// LoadConfig loads limiter configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:       enabled,
		Requests:      getEnvInt("RATE_LIMIT_REQUESTS", 10),
		Window:        getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		SweepInterval: getEnvDuration("RATE_LIMIT_SWEEP_INTERVAL", 5*time.Minute),
		Whitelist:     parseKeyList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:     parseKeyList(os.Getenv("RATE_LIMIT_BLACKLIST")),
	}
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

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
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

// parseKeyList parses a comma-separated list of client keys into a map.
func parseKeyList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	for _, key := range strings.Split(list, ",") {
		key = strings.TrimSpace(key)
		if key != "" {
			result[key] = true
		}
	}

	return result
}
