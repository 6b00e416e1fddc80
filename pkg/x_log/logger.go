package x_log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

//---------------------
// Global Logger
//---------------------

var (
	globalMu sync.RWMutex
	global   = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// SetGlobal replaces the process-wide logger.
func SetGlobal(l zerolog.Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = l
}

// L returns the process-wide logger.
func L() zerolog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

//---------------------
// Construction
//---------------------

// Build creates a logger from cfg.
func Build(cfg Config) (zerolog.Logger, error) {
	applyDefaults(&cfg)

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("%w: %q", err, cfg.Level)
	}
	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("%w: %q", err, cfg.Format)
	}

	var writers []io.Writer
	if cfg.ToConsole {
		writers = append(writers, consoleWriter(os.Stderr, format, cfg))
	}
	if cfg.LogFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// consoleWriter renders to f, styled only when f is a terminal.
func consoleWriter(f *os.File, format OutputFormat, cfg Config) io.Writer {
	if format == OutputJSON {
		return f
	}

	styles := DefaultStylesByName(cfg.Style)
	styles.Out = f
	styles.NoColor = cfg.NoColor || !isTerminal(f)
	return ConsoleWriterWithStyles(styles)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// InitWithConfig builds a logger from cfg, sets the global level and
// installs the logger globally with an optional service field.
func InitWithConfig(cfg *Config, service string) error {
	l, err := Build(*cfg)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(l.GetLevel())
	zerolog.TimeFieldFormat = time.RFC3339

	if service != "" {
		l = l.With().Str("service", service).Logger()
	}
	SetGlobal(l)
	return nil
}

// New returns a child of the global logger scoped to module.
func New(module string) zerolog.Logger {
	return Module(L(), module)
}

// Module returns a child of l with a module field.
func Module(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("module", name).Logger()
}
