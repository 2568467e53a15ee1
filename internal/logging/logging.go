// Package logging configures the file-backed logger used by the tray daemon.
// The daemon has no terminal of its own, so everything goes to
// ~/.local/state/hyprmin/hyprmind.log.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/hyprmin-io/hyprmin/internal/config"
)

const logFileName = "hyprmind.log"

// Open initializes a zerolog logger writing to the daemon log file. The
// returned closer must be called on process exit.
func Open(level string) (zerolog.Logger, func(), error) {
	dir, err := config.EnsureStateDir()
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	path := filepath.Join(dir, logFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(f).Level(lvl).With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()

	return logger, func() { f.Close() }, nil
}
