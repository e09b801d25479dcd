package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// The terminal UI owns stdout, so logging is JSON to a file (or discarded
// when no log path is configured).
var logger = slog.New(slog.NewJSONHandler(io.Discard, nil))

func Logger() *slog.Logger {
	return logger
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return logger.With(kv...)
}

// Init routes log output to the given file, creating parent directories as
// needed. An empty path leaves logging disabled.
func Init(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logger = slog.New(slog.NewJSONHandler(f, nil))
	return nil
}
