package x_log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

//
// ---------- Config ----------

// Config selects log level, output format and sinks.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // console or json
	Style      string // console theme: dark or light
	NoColor    bool   // plain console output
	ToConsole  bool   // write to stderr
	LogFile    string // rotating file sink, empty to disable
	MaxSize    int    // MB before rotation
	MaxBackups int    // rotated files kept
	MaxAge     int    // days
	Compress   bool
}

//
// ---------- Defaults ----------

var defaultConfig = Config{
	Level:      "info",
	Format:     "console",
	Style:      "dark",
	ToConsole:  true,
	MaxSize:    10, // MB
	MaxBackups: 5,  // rotated files
	MaxAge:     7,  // days
	Compress:   true,
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return defaultConfig
}

//
// ---------- LoadConfig ----------

// LoadConfig reads a JSON logger config from path. Fields left out keep
// their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config from %s: %w", path, err)
	}

	cfg := defaultConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

//
// ---------- Defaults Fill ----------

// applyDefaults fills missing config values from defaultConfig
func applyDefaults(cfg *Config) {
	if cfg.Level == "" {
		cfg.Level = defaultConfig.Level
	}
	if cfg.Format == "" {
		cfg.Format = defaultConfig.Format
	}
	if cfg.Style == "" {
		cfg.Style = defaultConfig.Style
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = defaultConfig.MaxSize
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = defaultConfig.MaxBackups
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaultConfig.MaxAge
	}
}
