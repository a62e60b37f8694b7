// Package bundler adapts a reformat plugin to the lifecycle hooks a bundler
// calls: an options read before the build and a render hook per chunk.
package bundler

import (
	"context"
	"strings"

	m "github.com/mouse-blink/prettymap/internal/model"
)

// Reformatter is the part of the plugin the hooks drive.
type Reformatter interface {
	Name() string
	Sourcemap() m.SourcemapSetting
	EnableSourcemap()
	Reformat(ctx context.Context, source string, perCall m.SourcemapSetting) (m.Result, error)
}

// OutputOptions are the per-output settings of a build. Sourcemap and
// SourceMap accept bool or string values ("inline", "hidden", "silent").
type OutputOptions struct {
	File      string
	Format    string
	Sourcemap any
	SourceMap any
}

// InputOptions are the build-level settings passed to the options hook.
type InputOptions struct {
	Sourcemap any
	SourceMap any
	Output    []OutputOptions
}

// Chunk describes the rendered chunk being reformatted.
type Chunk struct {
	FileName string
	IsEntry  bool
	Imports  []string
}

// Hooks exposes a Reformatter through bundler lifecycle hooks.
type Hooks struct {
	plugin Reformatter
}

// NewHooks wraps plugin.
func NewHooks(plugin Reformatter) *Hooks {
	return &Hooks{plugin: plugin}
}

// Name returns the plugin name used in bundler diagnostics.
func (h *Hooks) Name() string {
	return h.plugin.Name()
}

// Options enables source maps on the plugin when it has no setting of its own
// and the build asks for maps globally or on any output.
func (h *Hooks) Options(opts InputOptions) {
	if h.plugin.Sourcemap().IsSet() {
		return
	}

	enabled := isSourcemapEnabled(opts.Sourcemap, opts.SourceMap)

	for _, out := range opts.Output {
		if isSourcemapEnabled(out.Sourcemap, out.SourceMap) {
			enabled = true
		}
	}

	if enabled {
		h.plugin.EnableSourcemap()
	}
}

// RenderChunk reformats a rendered chunk, honoring the output-level flag.
func (h *Hooks) RenderChunk(ctx context.Context, code string, _ Chunk, out OutputOptions) (m.Result, error) {
	return h.plugin.Reformat(ctx, code, OutputSourcemap(out))
}

// TransformBundle is the hook name used by older bundler versions.
func (h *Hooks) TransformBundle(ctx context.Context, code string, out OutputOptions) (m.Result, error) {
	return h.plugin.Reformat(ctx, code, OutputSourcemap(out))
}

// OutputSourcemap reads the per-call setting from out. The current spelling
// wins when present.
func OutputSourcemap(out OutputOptions) m.SourcemapSetting {
	if out.Sourcemap != nil {
		return m.ParseSourcemapSetting(out.Sourcemap)
	}

	return m.ParseSourcemapSetting(out.SourceMap)
}

func isSourcemapEnabled(values ...any) bool {
	for _, v := range values {
		if m.ParseSourcemapSetting(v).Enabled() {
			return true
		}
	}

	return false
}

// MapMode tells the caller how to attach a generated map to the output file.
type MapMode int

const (
	// MapFile writes a sibling .map file and references it from the output.
	MapFile MapMode = iota
	// MapInline embeds the map as a data URL comment.
	MapInline
	// MapHidden writes a sibling .map file without a reference comment.
	MapHidden
)

// String implements fmt.Stringer.
func (mode MapMode) String() string {
	switch mode {
	case MapInline:
		return "inline"
	case MapHidden:
		return "hidden"
	default:
		return "file"
	}
}

// MapModeOf derives the attachment mode from an output sourcemap value.
func MapModeOf(value any) MapMode {
	s, ok := value.(string)
	if !ok {
		return MapFile
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inline":
		return MapInline
	case "hidden":
		return MapHidden
	default:
		return MapFile
	}
}
