package adapter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/prettymap/internal/model"
)

func TestLocalConfigResolver_ResolveConfig(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		cwd   string
		want  m.FormatOptions
	}{
		{
			name:  "prettierrc yaml",
			files: map[string]string{".prettierrc": "semi: false\ntabWidth: 4\n"},
			want:  m.FormatOptions{"semi": false, "tabWidth": 4},
		},
		{
			name:  "prettierrc json content",
			files: map[string]string{".prettierrc": `{"singleQuote": true}`},
			want:  m.FormatOptions{"singleQuote": true},
		},
		{
			name:  "json file",
			files: map[string]string{".prettierrc.json": `{"singleQuote": true, "parser": "babel"}`},
			want:  m.FormatOptions{"singleQuote": true, "parser": "babel"},
		},
		{
			name:  "yml file",
			files: map[string]string{".prettierrc.yml": "trailingComma: all\n"},
			want:  m.FormatOptions{"trailingComma": "all"},
		},
		{
			name:  "toml file",
			files: map[string]string{".prettierrc.toml": "tabWidth = 4\nuseTabs = true\n"},
			want:  m.FormatOptions{"tabWidth": int64(4), "useTabs": true},
		},
		{
			name:  "package.json prettier key",
			files: map[string]string{"package.json": `{"name": "app", "prettier": {"semi": false}}`},
			want:  m.FormatOptions{"semi": false},
		},
		{
			name: "package.json without prettier key falls through",
			files: map[string]string{
				"package.json":     `{"name": "app"}`,
				".prettierrc.json": `{"semi": true}`,
			},
			want: m.FormatOptions{"semi": true},
		},
		{
			name: "package.json naming a shared config is skipped",
			files: map[string]string{
				"package.json": `{"prettier": "@company/prettier-config"}`,
				".prettierrc":  "semi: true\n",
			},
			want: m.FormatOptions{"semi": true},
		},
		{
			name:  "found in parent directory",
			files: map[string]string{".prettierrc.yaml": "printWidth: 100\n"},
			cwd:   filepath.Join("packages", "web"),
			want:  m.FormatOptions{"printWidth": 100},
		},
		{
			name: "nearest directory wins",
			files: map[string]string{
				".prettierrc": "semi: false\n",
				filepath.Join("packages", "web", ".prettierrc"): "semi: true\n",
			},
			cwd:  filepath.Join("packages", "web"),
			want: m.FormatOptions{"semi": true},
		},
		{
			name:  "empty prettierrc",
			files: map[string]string{".prettierrc": "\n"},
			want:  m.FormatOptions{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for name, contents := range tt.files {
				mustMkdir(t, filepath.Dir(filepath.Join(root, name)))
				writeTestFile(t, filepath.Join(root, name), contents)
			}

			cwd := filepath.Join(root, tt.cwd)
			mustMkdir(t, cwd)

			resolver := NewLocalConfigResolver(NewLocalSourceFSAdapter())

			got, err := resolver.ResolveConfig(context.Background(), m.Path(cwd))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalConfigResolver_ParseError(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, ".prettierrc.json"), "{broken")

	resolver := NewLocalConfigResolver(NewLocalSourceFSAdapter())

	_, err := resolver.ResolveConfig(context.Background(), m.Path(root))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".prettierrc.json")
}

func TestLocalConfigResolver_SkipsDirectories(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, ".prettierrc"))
	writeTestFile(t, filepath.Join(root, ".prettierrc.yml"), "semi: false\n")

	resolver := NewLocalConfigResolver(NewLocalSourceFSAdapter())

	got, err := resolver.ResolveConfig(context.Background(), m.Path(root))
	require.NoError(t, err)
	assert.Equal(t, m.FormatOptions{"semi": false}, got)
}
