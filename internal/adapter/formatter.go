package adapter

import (
	"context"
	"errors"
	"go/format"
	"log/slog"

	m "github.com/mouse-blink/prettymap/internal/model"
)

// ErrFormatterNotFound is returned when the formatter executable is not on PATH.
var ErrFormatterNotFound = errors.New("formatter executable not found")

// Formatter turns source text into canonical text. Implementations must be
// deterministic for identical inputs and must not modify options.
type Formatter interface {
	Format(ctx context.Context, source string, options m.FormatOptions) (string, error)
}

type filePathKey struct{}

// WithFilePath returns a context that tells formatters which file the source
// came from, so they can infer the language from its extension.
func WithFilePath(ctx context.Context, path m.Path) context.Context {
	return context.WithValue(ctx, filePathKey{}, path)
}

// FilePathFrom returns the path stored by WithFilePath.
func FilePathFrom(ctx context.Context) (m.Path, bool) {
	path, ok := ctx.Value(filePathKey{}).(m.Path)
	return path, ok && path != ""
}

// FormatterFunc adapts an ordinary function to the Formatter interface.
type FormatterFunc func(ctx context.Context, source string, options m.FormatOptions) (string, error)

// Format calls f.
func (f FormatterFunc) Format(ctx context.Context, source string, options m.FormatOptions) (string, error) {
	return f(ctx, source, options)
}

// GoFormatter formats Go source with go/format. It takes no options.
type GoFormatter struct{}

// NewGoFormatter constructs a GoFormatter.
func NewGoFormatter() *GoFormatter {
	return &GoFormatter{}
}

// Format runs gofmt over source.
func (f *GoFormatter) Format(ctx context.Context, source string, options m.FormatOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if len(options) > 0 {
		slog.Debug("gofmt ignores formatter options", "count", len(options))
	}

	out, err := format.Source([]byte(source))
	if err != nil {
		return "", err
	}

	return string(out), nil
}
