// Package domain contains the reformat-and-remap engine, the option resolver
// and the batch workflow driving them.
package domain

import (
	"fmt"
	"log/slog"
)

// Diagnostics is a line-oriented advisory channel. Lines written here are
// notices for the user, never errors.
type Diagnostics interface {
	Warn(line string)
}

type logDiagnostics struct {
	logger *slog.Logger
}

// NewLogDiagnostics writes advisory lines to logger at warn level. A nil
// logger means slog.Default().
func NewLogDiagnostics(logger *slog.Logger) Diagnostics {
	if logger == nil {
		logger = slog.Default()
	}

	return &logDiagnostics{logger: logger}
}

func (d *logDiagnostics) Warn(line string) {
	d.logger.Warn(line)
}

func notice(format string, args ...any) string {
	return fmt.Sprintf("[%s] ", PluginName) + fmt.Sprintf(format, args...)
}
