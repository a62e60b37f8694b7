package domain

import (
	"context"
	"log/slog"
	"os"

	"github.com/mouse-blink/prettymap/internal/adapter"
	m "github.com/mouse-blink/prettymap/internal/model"
)

// ResolvedOptions is the effective plugin configuration.
type ResolvedOptions struct {
	// Options go to the formatter. nil when nothing is configured.
	Options m.FormatOptions
	// Sourcemap is the plugin-level setting, SourcemapUnset when not configured.
	Sourcemap m.SourcemapSetting
	// Cwd is the directory configuration was discovered from.
	Cwd m.Path
}

// OptionResolver turns caller options into the effective configuration
// without modifying them.
type OptionResolver interface {
	Resolve(ctx context.Context, raw m.FormatOptions) ResolvedOptions
}

type optionResolver struct {
	configs     adapter.ConfigResolver
	diagnostics Diagnostics
	getwd       func() (string, error)
}

// NewOptionResolver creates an OptionResolver. configs may be nil, in which
// case no on-disk configuration is consulted.
func NewOptionResolver(configs adapter.ConfigResolver, diagnostics Diagnostics) OptionResolver {
	if diagnostics == nil {
		diagnostics = NewLogDiagnostics(nil)
	}

	return &optionResolver{
		configs:     configs,
		diagnostics: diagnostics,
		getwd:       os.Getwd,
	}
}

func (r *optionResolver) Resolve(ctx context.Context, raw m.FormatOptions) ResolvedOptions {
	options := raw.WithoutControlKeys()
	cwd := r.resolveCwd(raw)

	if r.configs != nil {
		discovered, err := r.configs.ResolveConfig(ctx, cwd)
		if err != nil {
			slog.Debug("Config discovery failed, continuing without it", "cwd", cwd, "error", err)
		} else if discovered != nil {
			options = options.Merge(discovered.WithoutControlKeys())
		}
	}

	return ResolvedOptions{
		Options:   options.OrNil(),
		Sourcemap: r.resolveSourcemap(raw),
		Cwd:       cwd,
	}
}

func (r *optionResolver) resolveCwd(raw m.FormatOptions) m.Path {
	switch v := raw[m.OptionCwd].(type) {
	case string:
		if v != "" {
			return m.Path(v)
		}
	case m.Path:
		if v != "" {
			return v
		}
	}

	wd, err := r.getwd()
	if err != nil {
		slog.Debug("Failed to read working directory", "error", err)
		return "."
	}

	return m.Path(wd)
}

func (r *optionResolver) resolveSourcemap(raw m.FormatOptions) m.SourcemapSetting {
	if raw.Has(m.OptionSourcemap) {
		return m.ParseSourcemapSetting(raw[m.OptionSourcemap])
	}

	if raw.Has(m.OptionSourcemapDeprecated) {
		r.diagnostics.Warn(notice("The %s option is deprecated, please use %s instead.", m.OptionSourcemapDeprecated, m.OptionSourcemap))
		return m.ParseSourcemapSetting(raw[m.OptionSourcemapDeprecated])
	}

	return m.SourcemapUnset
}
