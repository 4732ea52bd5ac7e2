package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeycumines/lifesim/internal/config"
	"golang.org/x/term"
)

// logConfig holds resolved logging configuration.
type logConfig struct {
	level  slog.Level
	format string
	path   string
}

// resolveLogConfig reads log.level, log.format and log.file. Environment
// overrides are applied by the schema.
func resolveLogConfig(cfg *config.Config, schema *config.Schema) (logConfig, error) {
	lc := logConfig{
		format: strings.ToLower(schema.String(cfg, "", "log.format")),
		path:   schema.String(cfg, "", "log.file"),
	}

	switch level := schema.String(cfg, "", "log.level"); strings.ToLower(level) {
	case "debug":
		lc.level = slog.LevelDebug
	case "info", "":
		lc.level = slog.LevelInfo
	case "warn":
		lc.level = slog.LevelWarn
	case "error":
		lc.level = slog.LevelError
	default:
		return lc, fmt.Errorf("invalid log level: %s", level)
	}

	switch lc.format {
	case "", "auto", "text", "json":
	default:
		return lc, fmt.Errorf("invalid log format: %s", lc.format)
	}
	return lc, nil
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewLogger builds the process logger writing to stderr, plus log.file when
// set. The returned close func releases the file.
func NewLogger(cfg *config.Config, schema *config.Schema, stderr io.Writer) (*slog.Logger, func() error, error) {
	lc, err := resolveLogConfig(cfg, schema)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: lc.level}

	var h slog.Handler
	switch lc.format {
	case "text":
		h = slog.NewTextHandler(stderr, opts)
	case "json":
		h = slog.NewJSONHandler(stderr, opts)
	default:
		if isTerminal(stderr) {
			h = slog.NewTextHandler(stderr, opts)
		} else {
			h = slog.NewJSONHandler(stderr, opts)
		}
	}

	closeFn := func() error { return nil }
	if lc.path != "" {
		if err := os.MkdirAll(filepath.Dir(lc.path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(lc.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", lc.path, err)
		}
		h = slog.NewMultiHandler(h, slog.NewJSONHandler(f, opts))
		closeFn = f.Close
	}
	return slog.New(h), closeFn, nil
}
