package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfigDefaults(t *testing.T) {
	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, ',', config.Delimiter())
	assert.InDelta(t, 0.60, config.Resolver.MinScore, 1e-9)
	assert.True(t, config.Resolver.AutoLearn)
	assert.False(t, config.Ingest.RejectMissingUID)
	assert.Equal(t, "yaml", config.Store.Backend)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("INGESTA_LOG_LEVEL", "debug")
	t.Setenv("INGESTA_STORE_BACKEND", "sqlite")
	t.Setenv("INGESTA_INGEST_REJECT_MISSING_UID", "true")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "sqlite", config.Store.Backend)
	assert.True(t, config.Ingest.RejectMissingUID)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"multi-char delimiter", func(c *Config) { c.CSV.Delimiter = ",," }},
		{"min score out of range", func(c *Config) { c.Resolver.MinScore = 1.5 }},
		{"unknown backend", func(c *Config) { c.Store.Backend = "postgres" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config, err := InitializeConfig()
			require.NoError(t, err)
			tc.mutate(config)
			assert.Error(t, validateConfig(config))
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("INGESTA_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("INGESTA_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("INGESTA_MISSING_KEY", "fallback"))
}
