package cli

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// openLogger returns a JSON debug logger writing to path, or a discarding
// one when path is empty. The terminal UI owns the screen, so nothing is
// ever logged to stderr.
func openLogger(path string) (*slog.Logger, func() error, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	h := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h).With("pid", os.Getpid()), f.Close, nil
}
