// Package logging builds the slog logger used across paneltrans from the
// log section of the settings.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/minios-linux/paneltrans/config"
	"github.com/minios-linux/paneltrans/settings"
)

// DefaultFile selects the log file in the XDG state directory.
const DefaultFile = "default"

// Logger is a slog.Logger that may own a log file.
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// New creates a logger writing to console, and additionally to the
// rotated file named in cfg.File when set. The file's directory is
// created if missing.
func New(cfg config.LogSettings, console io.Writer) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	w := console
	var closer io.Closer
	if cfg.File != "" {
		file, err := logFile(cfg.File)
		if err != nil {
			return nil, err
		}
		cfg.File = file
		lj := newLumberjack(cfg)
		w = io.MultiWriter(console, lj)
		closer = lj
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "pretty", "":
		handler = charmlog.NewWithOptions(w, charmlog.Options{
			Prefix:          "paneltrans",
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Level:           charmlog.Level(level),
		})
	default:
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("unknown log format %q (valid: pretty, text, json)", cfg.Format)
	}

	return &Logger{Logger: slog.New(handler), closer: closer}, nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func logFile(name string) (string, error) {
	if name == DefaultFile {
		p, err := settings.LogFilePath()
		if err != nil {
			return "", err
		}
		name = p
	}
	if err := settings.EnsureDir(filepath.Dir(name)); err != nil {
		return "", err
	}
	return name, nil
}

func newLumberjack(cfg config.LogSettings) *lumberjack.Logger {
	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	maxBackups := cfg.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 3
	}
	maxAge := cfg.MaxAgeDays
	if maxAge <= 0 {
		maxAge = 28
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   true,
	}
}

// ErrUnknownLevel is returned by ParseLevel.
var ErrUnknownLevel = errors.New("unknown log level")

// ParseLevel converts a level name to a slog.Level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
}
