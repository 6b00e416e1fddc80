package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Option is a functional config initializer.
type Option func(*Config) error

// WithValues sets raw config values. Placed last, it overrides files and
// the environment.
func WithValues(defaults map[string]any) Option {
	return func(c *Config) error {
		for k, v := range defaults {
			c.values[strings.ToLower(k)] = v
		}
		return nil
	}
}

// FromJSON loads config from a JSON file, expanding ${ENV_VAR} first.
func FromJSON(path string) Option {
	return fromFile(path, "json", json.Unmarshal)
}

// FromTOML loads config from a TOML file, expanding ${ENV_VAR} first.
func FromTOML(path string) Option {
	return fromFile(path, "toml", toml.Unmarshal)
}

// FromYAML loads config from a YAML file, expanding ${ENV_VAR} first.
func FromYAML(path string) Option {
	return fromFile(path, "yaml", yaml.Unmarshal)
}

// FromFile picks the decoder from the file extension. Unknown extensions
// are read as JSON.
func FromFile(path string) Option {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FromTOML(path)
	case ".yaml", ".yml":
		return FromYAML(path)
	default:
		return FromJSON(path)
	}
}

func fromFile(path, format string, unmarshal func([]byte, any) error) Option {
	return func(c *Config) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		data = ReplaceEnvVars(data)

		var raw map[string]any
		if err := unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parse config %s: %w", format, err)
		}
		for k, v := range raw {
			c.values[strings.ToLower(k)] = v
		}
		return nil
	}
}

// FromEnv loads config values from environment variables with prefix.
// Values stay strings; decoding converts them for typed fields.
func FromEnv(prefix string) Option {
	return func(c *Config) error {
		for _, e := range os.Environ() {
			name, value, ok := strings.Cut(e, "=")
			if !ok || !strings.HasPrefix(name, prefix) {
				continue
			}
			c.values[strings.ToLower(strings.TrimPrefix(name, prefix))] = value
		}
		return nil
	}
}

// ReplaceEnvVars replaces ${ENV_VAR} in a raw config file.
func ReplaceEnvVars(data []byte) []byte {
	return []byte(os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	}))
}
