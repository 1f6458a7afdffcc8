// Package observability wires structured logging for the CLI.
package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILogger is the process-wide logger for CLI commands. It defaults to a
// no-op logger so library code can log unconditionally; InitCLILogger
// replaces it at command startup.
var CLILogger = zap.NewNop()

// InitCLILogger builds the CLI logger, writing structured logs to stderr so
// stdout stays reserved for command output.
func InitCLILogger(verbose bool) error {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	CLILogger = logger
	return nil
}

// Sync flushes buffered log entries. Called on process exit.
func Sync() {
	_ = CLILogger.Sync()
}
