package adapter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/prettymap/internal/model"
)

// ConfigResolver discovers formatter configuration stored on disk.
type ConfigResolver interface {
	// ResolveConfig returns the options found for cwd, or nil when no
	// configuration exists.
	ResolveConfig(ctx context.Context, cwd m.Path) (m.FormatOptions, error)
}

type configLoader func(data []byte) (m.FormatOptions, bool, error)

type configFile struct {
	name string
	load configLoader
}

// configFiles is searched in order in every directory from cwd up to the root.
var configFiles = []configFile{
	{name: "package.json", load: loadPackageJSON},
	{name: ".prettierrc", load: loadYAML},
	{name: ".prettierrc.json", load: loadJSON},
	{name: ".prettierrc.yaml", load: loadYAML},
	{name: ".prettierrc.yml", load: loadYAML},
	{name: ".prettierrc.toml", load: loadTOML},
}

// LocalConfigResolver finds prettier configuration files by walking up from
// the working directory.
type LocalConfigResolver struct {
	fs SourceFSAdapter
}

// NewLocalConfigResolver constructs a LocalConfigResolver reading through fs.
func NewLocalConfigResolver(fs SourceFSAdapter) *LocalConfigResolver {
	return &LocalConfigResolver{fs: fs}
}

// ResolveConfig returns the first configuration found from cwd upwards.
func (r *LocalConfigResolver) ResolveConfig(ctx context.Context, cwd m.Path) (m.FormatOptions, error) {
	dir, err := r.fs.AbsPath(ctx, cwd)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", cwd, err)
	}

	for {
		for _, candidate := range configFiles {
			path := r.fs.JoinPath(ctx, string(dir), candidate.name)

			info, err := r.fs.FileInfo(ctx, path)
			if err != nil || info.IsDir() {
				continue
			}

			options, found, err := r.load(ctx, path, candidate.load)
			if err != nil {
				return nil, err
			}

			if found {
				slog.Debug("Resolved formatter config", "path", path, "keys", len(options))
				return options, nil
			}
		}

		parent := m.Path(filepath.Dir(string(dir)))
		if parent == dir {
			return nil, nil
		}

		dir = parent
	}
}

func (r *LocalConfigResolver) load(ctx context.Context, path m.Path, load configLoader) (m.FormatOptions, bool, error) {
	data, err := r.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	options, found, err := load(data)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return options, found, nil
}

func loadYAML(data []byte) (m.FormatOptions, bool, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return m.FormatOptions{}, true, nil
	}

	options := m.FormatOptions{}
	if err := yaml.Unmarshal(data, &options); err != nil {
		return nil, false, err
	}

	return options, true, nil
}

func loadJSON(data []byte) (m.FormatOptions, bool, error) {
	options := m.FormatOptions{}
	if err := json.Unmarshal(data, &options); err != nil {
		return nil, false, err
	}

	return options, true, nil
}

func loadTOML(data []byte) (m.FormatOptions, bool, error) {
	options := m.FormatOptions{}
	if err := toml.Unmarshal(data, &options); err != nil {
		return nil, false, err
	}

	return options, true, nil
}

// loadPackageJSON reads the "prettier" key. A package.json without it, or
// one that names a shared config package, is not a configuration.
func loadPackageJSON(data []byte) (m.FormatOptions, bool, error) {
	var manifest struct {
		Prettier json.RawMessage `json:"prettier"`
	}

	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, false, err
	}

	trimmed := bytes.TrimSpace(manifest.Prettier)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false, nil
	}

	return loadJSON(trimmed)
}
