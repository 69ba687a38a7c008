// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger setup.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	// File enables a rotating log file. When set, nothing is written to
	// the console writer.
	File string
	// Quiet discards console output when no file is set. The terminal UI
	// uses it because it owns the screen.
	Quiet bool
}

// FromEnv fills unset fields from SHEET_LOG_LEVEL, SHEET_LOG_FORMAT and
// SHEET_LOG_FILE.
func (o Options) FromEnv() Options {
	if o.Level == "" {
		o.Level = os.Getenv("SHEET_LOG_LEVEL")
	}
	if o.Format == "" {
		o.Format = os.Getenv("SHEET_LOG_FORMAT")
	}
	if o.File == "" {
		o.File = os.Getenv("SHEET_LOG_FILE")
	}
	return o
}

// New builds a logger writing to console (usually stderr) or to the
// configured file. The returned closer flushes the file; it is a no-op for
// console output.
func New(opts Options, console io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = console
	var closer io.Closer = nopCloser{}
	switch {
	case strings.TrimSpace(opts.File) != "":
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		w, closer = lj, lj
	case opts.Quiet || console == nil:
		w = io.Discard
	}

	hopts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "text":
		h = slog.NewTextHandler(w, hopts)
	case "json":
		h = slog.NewJSONHandler(w, hopts)
	default:
		return nil, nil, fmt.Errorf("unknown log format %q (want text or json)", opts.Format)
	}
	return slog.New(h), closer, nil
}

// Init is New followed by slog.SetDefault.
func Init(opts Options, console io.Writer) (io.Closer, error) {
	logger, closer, err := New(opts, console)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closer, nil
}

// ParseLevel maps a level name to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
