package x_log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfig reads a logger config file over the defaults.
func TestLoadConfig(t *testing.T) {
	t.Run("FileNotFound", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("ValidConfig", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "xlog.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"Level":"debug","Style":"light","MaxSize":0}`), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Level)
		assert.Equal(t, "light", cfg.Style)
		assert.Equal(t, defaultConfig.MaxSize, cfg.MaxSize)
		assert.True(t, cfg.ToConsole)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "xlog.json")
		require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}
