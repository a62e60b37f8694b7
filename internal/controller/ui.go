// Package controller provides output adapters for displaying reformat results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/prettymap/internal/model"
	"github.com/mouse-blink/prettymap/internal/sourcemap"
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	files []m.Path
}

// WithFiles announces the files a format run is about to process.
func WithFiles(paths []m.Path) StartOption {
	return func(c *StartConfig) {
		c.files = append([]m.Path(nil), paths...)
	}
}

// Files returns the files announced with WithFiles.
func (c StartConfig) Files() []m.Path {
	return c.files
}

func newStartConfig(options []StartOption) StartConfig {
	var cfg StartConfig
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// UI defines how the workflow reports progress and results.
// Implementations can use different output methods (plain text, TUI, ...).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	// FileStarted and FileFinished are called from worker goroutines.
	FileStarted(ctx context.Context, path m.Path)
	FileFinished(ctx context.Context, report m.FileReport)
	Close(ctx context.Context)
	// Warn writes one advisory line. It must be safe for concurrent use.
	Warn(line string)
	DisplayReports(ctx context.Context, reports []m.FileReport) error
	DisplayLocation(ctx context.Context, location sourcemap.Location) error
}

// NewUI picks the UI implementation for the current terminal: the
// interactive TUI on a terminal, plain text otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd, false)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
