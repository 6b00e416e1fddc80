package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rskv-p/busmatch/config"
)

func TestConfig_Default(t *testing.T) {
	cfg, err := config.New()
	require.NoError(t, err)
	assert.Equal(t, config.Default().ServiceName, cfg.ServiceName)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_StringAndDump(t *testing.T) {
	cfg, err := config.New(config.WithValues(map[string]any{
		"service_name": "demo",
		"jwt_secret":   "hunter2",
	}))
	require.NoError(t, err)

	str := cfg.String()
	assert.Contains(t, str, `"service_name": "demo"`)
	assert.Contains(t, str, `"jwt_secret": "***"`)
	assert.NotContains(t, str, "hunter2")
	assert.Equal(t, "hunter2", cfg.JWTSecret)

	var buf bytes.Buffer
	cfg.Dump(&buf)
	assert.Equal(t, str, buf.String())
}

func TestConfig_Validate(t *testing.T) {
	cfg, err := config.New(config.WithValues(map[string]any{
		"service_name":         "",
		"log_level":            "loud",
		"nats_url":             "",
		"subject_prefix":       "bus.*",
		"max_matches_per_peer": -1,
	}))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	for _, key := range []string{"service_name", "log_level", "nats_url", "subject_prefix", "max_matches_per_peer"} {
		assert.Contains(t, err.Error(), key)
	}

	// Embedded mode needs no URL.
	cfg.ServiceName, cfg.LogLevel, cfg.SubjectPrefix, cfg.MaxMatchesPerPeer = "x", "info", "bus", 0
	cfg.Embedded = true
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LogConfig(t *testing.T) {
	cfg, err := config.New(config.WithValues(map[string]any{
		"log_level":  "debug",
		"log_format": "json",
		"log_file":   "/tmp/busmatch.log",
	}))
	require.NoError(t, err)

	lc, err := cfg.LogConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "json", lc.Format)
	assert.Equal(t, "/tmp/busmatch.log", lc.LogFile)
	assert.True(t, lc.ToConsole)
}

func TestConfig_LogConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xlog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Level":"warn","Format":"json","NoColor":true}`), 0o644))

	cfg, err := config.New(config.WithValues(map[string]any{
		"log_level":  "debug",
		"log_config": path,
	}))
	require.NoError(t, err)

	lc, err := cfg.LogConfig()
	require.NoError(t, err)
	assert.Equal(t, "warn", lc.Level)
	assert.Equal(t, "json", lc.Format)
	assert.True(t, lc.NoColor)
	assert.Equal(t, "dark", lc.Style)

	cfg.LogConfigFile = filepath.Join(t.TempDir(), "missing.json")
	_, err = cfg.LogConfig()
	assert.Error(t, err)
}
