// Package logger configures the process-wide structured logger and exposes
// component-scoped loggers for the bot, storage, and payment layers.
package logger

import (
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config holds logging settings read from the application configuration.
type Config struct {
	Level   string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format  string `yaml:"format" envconfig:"LOG_FORMAT"`
	Dir     string `yaml:"dir" envconfig:"LOG_DIR"`
	File    string `yaml:"file" envconfig:"LOG_FILE"`
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

var (
	initOnce   sync.Once
	shutdownMu sync.Mutex
	shutdowned bool

	logClosers []io.Closer
	levelVar   slog.LevelVar

	// L is the base logger; component loggers below derive from it.
	L *slog.Logger

	// Bot logs Telegram handler activity.
	Bot *slog.Logger
	// DB logs storage operations.
	DB *slog.Logger
	// MIG logs schema migrations.
	MIG *slog.Logger
	// Pay logs payment orchestration events.
	Pay *slog.Logger
	// Web logs the payment HTTP surface.
	Web *slog.Logger
)

func init() {
	// Sensible default until Init runs, so early failures are still visible.
	wireComponents(slog.Default())
}

// Init configures the global structured logger. It may be called only once.
func Init(cfg Config) error {
	var initErr error
	initOnce.Do(func() {
		levelVar.Set(selectLevel(cfg.Level))

		outputs, closers, err := buildOutputs(cfg)
		if err != nil {
			initErr = err
			return
		}
		logClosers = closers

		opts := &slog.HandlerOptions{Level: &levelVar}
		sink := io.MultiWriter(outputs...)

		var handler slog.Handler
		if selectFormat(cfg) == "text" {
			handler = slog.NewTextHandler(sink, opts)
		} else {
			handler = slog.NewJSONHandler(sink, opts)
		}

		logger := slog.New(handler)
		slog.SetDefault(logger)
		wireComponents(logger)
	})
	return initErr
}

func wireComponents(logger *slog.Logger) {
	L = logger
	Bot = logger.With("component", "bot")
	DB = logger.With("component", "db")
	MIG = logger.With("component", "db.migrate")
	Pay = logger.With("component", "payment")
	Web = logger.With("component", "web")
}

// Shutdown closes any opened log sinks.
func Shutdown() error {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	if shutdowned {
		return nil
	}
	shutdowned = true

	var errs []error
	for _, c := range logClosers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func selectLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func selectFormat(cfg Config) string {
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "text", "kv", "pretty":
		return "text"
	case "json":
		return "json"
	}
	// Prefer human-friendly output when the profile indicates local development.
	if strings.EqualFold(cfg.Profile, "debug") || strings.EqualFold(cfg.Profile, "dev") {
		return "text"
	}
	return "json"
}

func buildOutputs(cfg Config) ([]io.Writer, []io.Closer, error) {
	writers := []io.Writer{os.Stdout}
	var closers []io.Closer

	dir := strings.TrimSpace(cfg.Dir)
	file := strings.TrimSpace(cfg.File)
	if dir != "" && file != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("logger: failed to create log dir %s: %v", dir, err)
			return writers, closers, nil
		}
		path := filepath.Join(dir, file)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Printf("logger: failed to open log file %s: %v", path, err)
			return writers, closers, nil
		}
		writers = append(writers, f)
		closers = append(closers, f)
	}
	return writers, closers, nil
}
