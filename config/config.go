// Package config loads busmatch settings from defaults, JSON files and the
// environment.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/rskv-p/busmatch/pkg/x_log"
)

// EnvPrefix is the prefix of environment overrides, e.g. BUSMATCH_LOG_LEVEL.
const EnvPrefix = "BUSMATCH_"

// Config holds all runtime settings.
type Config struct {
	ServiceName string `mapstructure:"service_name" json:"service_name"`

	LogLevel  string `mapstructure:"log_level" json:"log_level"`
	LogFormat string `mapstructure:"log_format" json:"log_format"`
	LogStyle  string `mapstructure:"log_style" json:"log_style"`
	LogFile   string `mapstructure:"log_file" json:"log_file"`

	// LogConfigFile names an x_log JSON file that replaces the log_* keys.
	LogConfigFile string `mapstructure:"log_config" json:"log_config"`

	NatsURL       string `mapstructure:"nats_url" json:"nats_url"`
	Embedded      bool   `mapstructure:"embedded" json:"embedded"`
	EmbeddedHost  string `mapstructure:"embedded_host" json:"embedded_host"`
	EmbeddedPort  int    `mapstructure:"embedded_port" json:"embedded_port"`
	SubjectPrefix string `mapstructure:"subject_prefix" json:"subject_prefix"`

	HTTPAddr  string `mapstructure:"http_addr" json:"http_addr"`
	JWTSecret string `mapstructure:"jwt_secret" json:"jwt_secret"`

	MaxMatchesPerPeer int `mapstructure:"max_matches_per_peer" json:"max_matches_per_peer"`

	values map[string]any
}

// Default returns a default config.
func Default() *Config {
	return &Config{
		ServiceName:       "busmatch",
		LogLevel:          "info",
		LogFormat:         "console",
		LogStyle:          "dark",
		NatsURL:           "nats://127.0.0.1:4222",
		EmbeddedHost:      "127.0.0.1",
		EmbeddedPort:      4222,
		SubjectPrefix:     "bus",
		HTTPAddr:          "127.0.0.1:8080",
		MaxMatchesPerPeer: 512,
		values:            map[string]any{},
	}
}

// New builds a config from Default and opts, applied in order.
func New(opts ...Option) (*Config, error) {
	cfg := Default()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.decode(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode copies raw values onto the typed fields.
func (cfg *Config) decode() error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(cfg.values); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// ----------------------------------------------------
// Validation
// ----------------------------------------------------

// Validate checks config for required and well-formed values.
func (cfg *Config) Validate() error {
	var bad []string
	if cfg.ServiceName == "" {
		bad = append(bad, "service_name")
	}
	if _, err := x_log.ParseLevel(cfg.LogLevel); err != nil {
		bad = append(bad, fmt.Sprintf("log_level(%q)", cfg.LogLevel))
	}
	if _, err := x_log.ParseFormat(cfg.LogFormat); err != nil {
		bad = append(bad, fmt.Sprintf("log_format(%q)", cfg.LogFormat))
	}
	if !cfg.Embedded && cfg.NatsURL == "" {
		bad = append(bad, "nats_url")
	}
	if cfg.Embedded && (cfg.EmbeddedPort < -1 || cfg.EmbeddedPort > 65535) {
		bad = append(bad, fmt.Sprintf("embedded_port(%d)", cfg.EmbeddedPort))
	}
	if cfg.SubjectPrefix == "" || strings.ContainsAny(cfg.SubjectPrefix, " \t*>") {
		bad = append(bad, fmt.Sprintf("subject_prefix(%q)", cfg.SubjectPrefix))
	}
	if cfg.MaxMatchesPerPeer < 0 {
		bad = append(bad, fmt.Sprintf("max_matches_per_peer(%d)", cfg.MaxMatchesPerPeer))
	}
	if len(bad) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(bad, ", "))
	}
	return nil
}

// LogConfig derives the logger settings, read from LogConfigFile when set.
func (cfg *Config) LogConfig() (x_log.Config, error) {
	if cfg.LogConfigFile != "" {
		lc, err := x_log.LoadConfig(cfg.LogConfigFile)
		if err != nil {
			return x_log.Config{}, err
		}
		return *lc, nil
	}

	lc := x_log.DefaultConfig()
	lc.Level = cfg.LogLevel
	lc.Format = cfg.LogFormat
	lc.Style = cfg.LogStyle
	lc.LogFile = cfg.LogFile
	return lc, nil
}

// ----------------------------------------------------
// Output
// ----------------------------------------------------

// String renders the config as JSON with the secret masked.
func (cfg *Config) String() string {
	masked := *cfg
	if masked.JWTSecret != "" {
		masked.JWTSecret = "***"
	}
	data, _ := json.MarshalIndent(&masked, "", "  ")
	return string(data)
}

// Dump writes String to w.
func (cfg *Config) Dump(w io.Writer) {
	_, _ = io.WriteString(w, cfg.String())
}
