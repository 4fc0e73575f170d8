// Package logging builds the zap logger used while the dashboard owns the
// terminal: stdout belongs to the TUI, so log output goes to a file under
// the config directory. Logging is debug-gated; when disabled, a no-op
// logger is returned and no files are written.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewSession returns a logger for an interactive session. With debug off it
// is a Nop logger; with debug on it appends JSON lines to dir/pgxboard.log.
func NewSession(dir string, debug bool) (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{filepath.Join(dir, "pgxboard.log")}
	cfg.ErrorOutputPaths = cfg.OutputPaths

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session logger: %w", err)
	}
	return logger, nil
}
