package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/prettymap/internal/adapter"
	"github.com/mouse-blink/prettymap/internal/bundler"
	"github.com/mouse-blink/prettymap/internal/controller"
	controllermocks "github.com/mouse-blink/prettymap/internal/controller/mocks"
	m "github.com/mouse-blink/prettymap/internal/model"
	"github.com/mouse-blink/prettymap/internal/sourcemap"
)

func writeBundle(t *testing.T, dir, name, contents string) m.Path {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	return m.Path(path)
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

// captureReports expects one format run on ui and returns the reports it displays.
func captureReports(ui *controllermocks.MockUI) *[]m.FileReport {
	var captured []m.FileReport

	ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	ui.On("FileStarted", mock.Anything, mock.Anything).Return()
	ui.On("FileFinished", mock.Anything, mock.Anything).Return()
	ui.On("Close", mock.Anything).Return().Once()

	ui.On("DisplayReports", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).([]m.FileReport)
		}).
		Return(nil).
		Once()

	return &captured
}

func TestWorkflow_FormatWithMapFile(t *testing.T) {
	dir := t.TempDir()
	source := writeBundle(t, dir, "bundle.js", exampleSource)

	ui := controllermocks.NewMockUI(t)
	reports := captureReports(ui)

	wf := NewWorkflow(adapter.NewLocalSourceFSAdapter(), ui)
	plugin := newTestPlugin(nil, exampleFormatter(), adapter.NewMyersDiffer(0), &recordingDiagnostics{})

	err := wf.Format(context.Background(), FormatArgs{
		Plugin:  plugin,
		Paths:   []m.Path{source},
		Output:  bundler.OutputOptions{Sourcemap: true},
		Mode:    bundler.MapFile,
		Threads: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, exampleOutput+"//# sourceMappingURL=bundle.js.map\n", readFile(t, string(source)))

	require.Len(t, *reports, 1)
	report := (*reports)[0]
	assert.True(t, report.Changed)
	assert.True(t, report.Mapped)
	assert.Equal(t, source+".map", report.MapPath)
	assert.NoError(t, report.Err)

	consumer, err := sourcemap.ParseConsumer(string(report.MapPath), []byte(readFile(t, string(report.MapPath))))
	require.NoError(t, err)
	assert.Equal(t, "bundle.js", consumer.File())

	// "test" starts at column 4 of the second formatted line and at
	// column 14 of the single original line.
	location, ok := consumer.Lookup(2, 4)
	require.True(t, ok)
	assert.Equal(t, 1, location.Line)
	assert.Equal(t, 14, location.Column)
	assert.True(t, strings.HasSuffix(location.Source, "bundle.js"))
}

func TestWorkflow_FormatInlineIntoOutDir(t *testing.T) {
	dir := t.TempDir()
	source := writeBundle(t, dir, "bundle.js", exampleSource)
	outDir := filepath.Join(dir, "dist")

	ui := controllermocks.NewMockUI(t)
	reports := captureReports(ui)

	wf := NewWorkflow(adapter.NewLocalSourceFSAdapter(), ui)
	plugin := newTestPlugin(nil, exampleFormatter(), adapter.NewMyersDiffer(0), &recordingDiagnostics{})

	err := wf.Format(context.Background(), FormatArgs{
		Plugin: plugin,
		Paths:  []m.Path{source},
		Output: bundler.OutputOptions{Sourcemap: "inline"},
		Mode:   bundler.MapInline,
		OutDir: m.Path(outDir),
	})
	require.NoError(t, err)

	assert.Equal(t, exampleSource, readFile(t, string(source)), "source stays untouched")

	formatted := readFile(t, filepath.Join(outDir, "bundle.js"))
	assert.True(t, strings.HasPrefix(formatted, exampleOutput+"//# sourceMappingURL=data:application/json;charset=utf-8;base64,"))
	assert.NoFileExists(t, filepath.Join(outDir, "bundle.js.map"))

	require.Len(t, *reports, 1)
	assert.True(t, (*reports)[0].Mapped)
	assert.Empty(t, (*reports)[0].MapPath)
}

func TestWorkflow_FormatHiddenMap(t *testing.T) {
	dir := t.TempDir()
	source := writeBundle(t, dir, "bundle.js", exampleSource)

	ui := controllermocks.NewMockUI(t)
	captureReports(ui)

	wf := NewWorkflow(adapter.NewLocalSourceFSAdapter(), ui)
	plugin := newTestPlugin(nil, exampleFormatter(), adapter.NewMyersDiffer(0), &recordingDiagnostics{})

	err := wf.Format(context.Background(), FormatArgs{
		Plugin: plugin,
		Paths:  []m.Path{source},
		Output: bundler.OutputOptions{Sourcemap: "hidden"},
		Mode:   bundler.MapHidden,
	})
	require.NoError(t, err)

	assert.Equal(t, exampleOutput, readFile(t, string(source)))
	assert.FileExists(t, string(source)+".map")
}

func TestWorkflow_FormatWithoutMap(t *testing.T) {
	dir := t.TempDir()
	first := writeBundle(t, dir, "a.js", exampleSource)
	second := writeBundle(t, dir, "b.js", "var foo = 0;\n")

	ui := controllermocks.NewMockUI(t)
	reports := captureReports(ui)

	wf := NewWorkflow(adapter.NewLocalSourceFSAdapter(), ui)
	plugin := newTestPlugin(nil, exampleFormatter(), adapter.NewMyersDiffer(0), &recordingDiagnostics{})

	err := wf.Format(context.Background(), FormatArgs{
		Plugin:  plugin,
		Paths:   []m.Path{second, first},
		Threads: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, exampleOutput, readFile(t, string(first)))
	assert.NoFileExists(t, string(first)+".map")

	require.Len(t, *reports, 2)
	assert.Equal(t, first, (*reports)[0].Source, "reports are sorted by source")
	assert.True(t, (*reports)[0].Changed)
	assert.False(t, (*reports)[1].Changed)
	assert.False(t, (*reports)[1].Mapped)
}

func TestWorkflow_GlobalSourcemapEnablesPlugin(t *testing.T) {
	dir := t.TempDir()
	source := writeBundle(t, dir, "bundle.js", exampleSource)

	ui := controllermocks.NewMockUI(t)
	captureReports(ui)

	plugin := newTestPlugin(nil, exampleFormatter(), adapter.NewMyersDiffer(0), &recordingDiagnostics{})
	wf := NewWorkflow(adapter.NewLocalSourceFSAdapter(), ui)

	err := wf.Format(context.Background(), FormatArgs{
		Plugin: plugin,
		Paths:  []m.Path{source},
		Output: bundler.OutputOptions{SourceMap: true},
	})
	require.NoError(t, err)

	assert.Equal(t, m.SourcemapOn, plugin.Sourcemap())
	assert.FileExists(t, string(source)+".map")
}

func TestWorkflow_FormatFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeBundle(t, dir, "good.js", "var foo = 0;\n")
	bad := writeBundle(t, dir, "bad.js", "var =")
	missing := m.Path(filepath.Join(dir, "missing.js"))

	errSyntax := errors.New("SyntaxError")
	formatter := adapter.FormatterFunc(func(_ context.Context, source string, _ m.FormatOptions) (string, error) {
		if source == "var =" {
			return "", errSyntax
		}

		return source, nil
	})

	ui := controllermocks.NewMockUI(t)
	reports := captureReports(ui)

	wf := NewWorkflow(adapter.NewLocalSourceFSAdapter(), ui)
	plugin := newTestPlugin(nil, formatter, adapter.NewMyersDiffer(0), &recordingDiagnostics{})

	err := wf.Format(context.Background(), FormatArgs{
		Plugin: plugin,
		Paths:  []m.Path{good, bad, missing},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3")

	require.Len(t, *reports, 3)

	byPath := map[m.Path]m.FileReport{}
	for _, report := range *reports {
		byPath[report.Source] = report
	}

	assert.NoError(t, byPath[good].Err)
	assert.ErrorIs(t, byPath[bad].Err, errSyntax)
	assert.ErrorIs(t, byPath[missing].Err, os.ErrNotExist)
	assert.Equal(t, "var =", readFile(t, string(bad)), "failed files are left alone")
}

func TestWorkflow_FormatReportsProgress(t *testing.T) {
	dir := t.TempDir()
	first := writeBundle(t, dir, "a.js", exampleSource)
	second := writeBundle(t, dir, "b.js", "var foo = 0;\n")

	var (
		mu       sync.Mutex
		started  []m.Path
		finished []m.Path
		files    []m.Path
	)

	ui := controllermocks.NewMockUI(t)
	ui.On("Start", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			var cfg controller.StartConfig
			for _, option := range args.Get(1).([]controller.StartOption) {
				option(&cfg)
			}

			files = cfg.Files()
		}).
		Return(nil).
		Once()
	ui.On("FileStarted", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()

			started = append(started, args.Get(1).(m.Path))
		}).
		Return()
	ui.On("FileFinished", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()

			report := args.Get(1).(m.FileReport)
			assert.Contains(t, started, report.Source, "a file finishes after it started")
			finished = append(finished, report.Source)
		}).
		Return()
	ui.On("Close", mock.Anything).Return().Once()
	ui.On("DisplayReports", mock.Anything, mock.Anything).Return(nil).Once()

	wf := NewWorkflow(adapter.NewLocalSourceFSAdapter(), ui)
	plugin := newTestPlugin(nil, exampleFormatter(), adapter.NewMyersDiffer(0), &recordingDiagnostics{})

	err := wf.Format(context.Background(), FormatArgs{
		Plugin:  plugin,
		Paths:   []m.Path{first, second},
		Threads: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, []m.Path{first, second}, files)
	assert.ElementsMatch(t, []m.Path{first, second}, started)
	assert.ElementsMatch(t, []m.Path{first, second}, finished)
}

func TestWorkflow_FormatPassesFilePath(t *testing.T) {
	dir := t.TempDir()
	source := writeBundle(t, dir, "bundle.js", exampleSource)

	var seen []m.Path

	formatter := adapter.FormatterFunc(func(ctx context.Context, source string, _ m.FormatOptions) (string, error) {
		path, ok := adapter.FilePathFrom(ctx)
		assert.True(t, ok)

		seen = append(seen, path)

		return source, nil
	})

	ui := controllermocks.NewMockUI(t)
	captureReports(ui)

	wf := NewWorkflow(adapter.NewLocalSourceFSAdapter(), ui)
	plugin := newTestPlugin(nil, formatter, adapter.NewMyersDiffer(0), &recordingDiagnostics{})

	require.NoError(t, wf.Format(context.Background(), FormatArgs{Plugin: plugin, Paths: []m.Path{source}}))
	assert.Equal(t, []m.Path{source}, seen)
}

func TestWorkflow_FormatShowDiff(t *testing.T) {
	dir := t.TempDir()
	changed := writeBundle(t, dir, "a.js", exampleSource)
	unchanged := writeBundle(t, dir, "b.js", "var foo = 0;\n")

	ui := controllermocks.NewMockUI(t)
	reports := captureReports(ui)

	wf := NewWorkflow(adapter.NewLocalSourceFSAdapter(), ui)
	plugin := newTestPlugin(nil, exampleFormatter(), adapter.NewMyersDiffer(0), &recordingDiagnostics{})

	err := wf.Format(context.Background(), FormatArgs{
		Plugin:   plugin,
		Paths:    []m.Path{changed, unchanged},
		Output:   bundler.OutputOptions{Sourcemap: true},
		ShowDiff: true,
	})
	require.NoError(t, err)

	require.Len(t, *reports, 2)
	assert.Contains(t, (*reports)[0].Diff, "-"+exampleSource)
	assert.Contains(t, (*reports)[0].Diff, "+var test = \"hello world\";")
	assert.NotContains(t, (*reports)[0].Diff, "sourceMappingURL", "the preview shows formatting only")
	assert.Empty(t, (*reports)[1].Diff)
}

func TestWorkflow_FormatRequiresPlugin(t *testing.T) {
	wf := NewWorkflow(adapter.NewLocalSourceFSAdapter(), controllermocks.NewMockUI(t))

	require.Error(t, wf.Format(context.Background(), FormatArgs{}))
}

func TestWorkflow_Lookup(t *testing.T) {
	dir := t.TempDir()

	positions := sourcemap.New("ab", "a b", []int{0, sourcemap.Synthetic, 1})
	data, err := positions.EncodeV3(sourcemap.EncodeOptions{File: "out.js", Source: "in.js"}).Marshal()
	require.NoError(t, err)

	mapPath := writeBundle(t, dir, "out.js.map", string(data))

	ui := controllermocks.NewMockUI(t)
	ui.On("DisplayLocation", mock.Anything, mock.MatchedBy(func(location sourcemap.Location) bool {
		return strings.HasSuffix(location.Source, "in.js") && location.Line == 1 && location.Column == 1
	})).Return(nil).Once()

	wf := NewWorkflow(adapter.NewLocalSourceFSAdapter(), ui)

	require.NoError(t, wf.Lookup(context.Background(), LookupArgs{Map: mapPath, Line: 1, Column: 2}))
}

func TestWorkflow_LookupErrors(t *testing.T) {
	dir := t.TempDir()
	broken := writeBundle(t, dir, "broken.map", "{not json")

	wf := NewWorkflow(adapter.NewLocalSourceFSAdapter(), controllermocks.NewMockUI(t))

	require.Error(t, wf.Lookup(context.Background(), LookupArgs{Map: broken, Line: 1}))
	require.ErrorIs(t, wf.Lookup(context.Background(), LookupArgs{Map: m.Path(filepath.Join(dir, "nope.map")), Line: 1}), os.ErrNotExist)
}
