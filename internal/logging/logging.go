// Package logging builds the process logger for the CLI. The core packages
// accept a *zap.Logger and default to a nop logger, so this stays a thin
// construction helper.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production-configured logger; verbose lowers the level to
// debug, which includes per-rule and per-query engine traces.
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
