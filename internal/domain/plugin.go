package domain

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mouse-blink/prettymap/internal/adapter"
	m "github.com/mouse-blink/prettymap/internal/model"
	"github.com/mouse-blink/prettymap/internal/sourcemap"
)

// PluginName prefixes every advisory line and names the plugin to bundlers.
const PluginName = "prettymap"

// Plugin reformats bundles and, on request, maps the result back to the input.
type Plugin interface {
	Name() string

	// Sourcemap returns the plugin-level setting.
	Sourcemap() m.SourcemapSetting

	// EnableSourcemap forces the plugin-level setting on.
	EnableSourcemap()

	// Reformat formats source. perCall overrides the plugin-level setting
	// unless it is SourcemapUnset. Formatter errors are returned unchanged.
	Reformat(ctx context.Context, source string, perCall m.SourcemapSetting) (m.Result, error)

	// ReformatAsync runs Reformat on its own goroutine. Exactly one of the
	// channels receives a value before both are closed.
	ReformatAsync(ctx context.Context, source string, perCall m.SourcemapSetting) (<-chan m.Result, <-chan error)
}

type plugin struct {
	adapter.Formatter
	adapter.Differ
	Diagnostics

	options m.FormatOptions

	mu        sync.RWMutex
	sourcemap m.SourcemapSetting
}

// NewPlugin resolves raw once and returns a Plugin using it for every call.
func NewPlugin(
	ctx context.Context,
	raw m.FormatOptions,
	resolver OptionResolver,
	formatter adapter.Formatter,
	differ adapter.Differ,
	diagnostics Diagnostics,
) Plugin {
	if diagnostics == nil {
		diagnostics = NewLogDiagnostics(nil)
	}

	if resolver == nil {
		resolver = NewOptionResolver(nil, diagnostics)
	}

	resolved := resolver.Resolve(ctx, raw)

	return &plugin{
		Formatter:   formatter,
		Differ:      differ,
		Diagnostics: diagnostics,
		options:     resolved.Options,
		sourcemap:   resolved.Sourcemap,
	}
}

func (p *plugin) Name() string {
	return PluginName
}

func (p *plugin) Sourcemap() m.SourcemapSetting {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.sourcemap
}

func (p *plugin) EnableSourcemap() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sourcemap = m.SourcemapOn
}

func (p *plugin) Reformat(ctx context.Context, source string, perCall m.SourcemapSetting) (m.Result, error) {
	output, err := p.Format(ctx, source, p.options.Clone())
	if err != nil {
		return m.Result{}, err
	}

	// Mapping is opt-in: it needs a full character diff of the bundle.
	setting := m.ResolveSourcemap(p.Sourcemap(), perCall)
	if !setting.Enabled() {
		return m.Result{Code: output}, nil
	}

	if setting != m.SourcemapSilent {
		p.Warn(notice("Sourcemap is enabled, computing diff is required"))
		p.Warn(notice("This may take a moment (depends on the size of your bundle)"))
	}

	return p.remap(source, output), nil
}

func (p *plugin) remap(source, output string) m.Result {
	script := p.Diff(source, output)

	buf, err := Replay(source, script)
	if err != nil {
		slog.Warn("Edit script does not fit the source, falling back to identity map", "error", err)
		return identityResult(source, output)
	}

	code, positions := buf.Finalize()
	if code != output {
		slog.Warn("Edit script does not reproduce formatter output, falling back to identity map",
			"operations", len(script))

		return identityResult(source, output)
	}

	return m.Result{Code: code, Map: positions}
}

func identityResult(source, output string) m.Result {
	return m.Result{Code: output, Map: sourcemap.Identity(source, output)}
}

func (p *plugin) ReformatAsync(ctx context.Context, source string, perCall m.SourcemapSetting) (<-chan m.Result, <-chan error) {
	resultCh := make(chan m.Result, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(resultCh)
		defer close(errCh)

		result, err := p.Reformat(ctx, source, perCall)
		if err != nil {
			errCh <- err
			return
		}

		resultCh <- result
	}()

	return resultCh, errCh
}
