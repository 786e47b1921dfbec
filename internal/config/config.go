// Package config loads process-wide defaults from environment variables.
// Per-command behavior comes from CLI flags; the environment only carries
// the knobs that apply to every invocation.
package config

import (
	"os"
	"strconv"
)

// Config holds redirt's process-wide configuration.
type Config struct {
	// Logging
	LogLevel  string
	LogFormat string

	// Walker hand-off queue capacity.
	QueueCapacity int

	// MetricsAddr, when set, serves Prometheus metrics on this address
	// for the duration of the run.
	MetricsAddr string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		LogLevel:      envOr("REDIRT_LOG_LEVEL", "info"),
		LogFormat:     envOr("REDIRT_LOG_FORMAT", "console"),
		QueueCapacity: envInt("REDIRT_QUEUE_CAPACITY", 0),
		MetricsAddr:   envOr("REDIRT_METRICS_ADDR", ""),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
