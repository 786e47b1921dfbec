package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REDIRT_LOG_LEVEL", "")
	t.Setenv("REDIRT_LOG_FORMAT", "")
	t.Setenv("REDIRT_QUEUE_CAPACITY", "")
	t.Setenv("REDIRT_METRICS_ADDR", "")

	cfg := Load()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 0, cfg.QueueCapacity)
	assert.Equal(t, "", cfg.MetricsAddr)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("REDIRT_LOG_LEVEL", "debug")
	t.Setenv("REDIRT_LOG_FORMAT", "json")
	t.Setenv("REDIRT_QUEUE_CAPACITY", "250")
	t.Setenv("REDIRT_METRICS_ADDR", ":9090")

	cfg := Load()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 250, cfg.QueueCapacity)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestLoadBadInteger(t *testing.T) {
	t.Setenv("REDIRT_QUEUE_CAPACITY", "lots")
	cfg := Load()
	assert.Equal(t, 0, cfg.QueueCapacity)
}
