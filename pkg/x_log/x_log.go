// Package x_log builds zerolog loggers with a styled console writer and an
// optional rotating file sink, and holds the process-wide logger.
package x_log

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidLevelValue  = errors.New("invalid_level_value")
	ErrInvalidFormatValue = errors.New("invalid_format_value")
)

type (
	Level        = zerolog.Level
	OutputFormat string
)

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel

	OutputConsole OutputFormat = "console"
	OutputJSON    OutputFormat = "json"
)

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, ErrInvalidLevelValue
	}
}

// ParseFormat maps a format name to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "console":
		return OutputConsole, nil
	case "json":
		return OutputJSON, nil
	default:
		return OutputConsole, ErrInvalidFormatValue
	}
}
