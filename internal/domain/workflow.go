package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/prettymap/internal/adapter"
	"github.com/mouse-blink/prettymap/internal/bundler"
	"github.com/mouse-blink/prettymap/internal/controller"
	m "github.com/mouse-blink/prettymap/internal/model"
	"github.com/mouse-blink/prettymap/internal/sourcemap"
)

const (
	outputFilePerm     = 0o644
	sourceMappingURL   = "//# sourceMappingURL="
	sourcemapExtension = ".map"
)

// FormatArgs contains the arguments for reformatting files.
type FormatArgs struct {
	Plugin Plugin
	Paths  []m.Path
	// Output carries the per-call sourcemap flag, as a bundler output would.
	Output bundler.OutputOptions
	// Mode controls how generated maps are attached to the output.
	Mode bundler.MapMode
	// OutDir receives the formatted files. Empty means in place.
	OutDir m.Path
	// ShowDiff attaches a unified diff of every change to its report.
	ShowDiff bool
	Threads  int
}

// LookupArgs contains the arguments for resolving a generated position.
type LookupArgs struct {
	Map    m.Path
	Line   int
	Column int
}

// Workflow drives the plugin over files on disk.
type Workflow interface {
	Format(ctx context.Context, args FormatArgs) error
	Lookup(ctx context.Context, args LookupArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	controller.UI
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(fsAdapter adapter.SourceFSAdapter, ui controller.UI) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		UI:              ui,
	}
}

func (w *workflow) Format(ctx context.Context, args FormatArgs) error {
	if args.Plugin == nil {
		return errors.New("missing plugin")
	}

	hooks := bundler.NewHooks(args.Plugin)
	hooks.Options(bundler.InputOptions{Output: []bundler.OutputOptions{args.Output}})

	if args.OutDir != "" {
		if err := w.MkdirAll(ctx, args.OutDir); err != nil {
			slog.Error("Failed to create output dir", "outDir", args.OutDir, "error", err)
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	if err := w.Start(ctx, controller.WithFiles(args.Paths)); err != nil {
		return fmt.Errorf("start progress: %w", err)
	}

	reports, formatErr := w.formatAll(ctx, hooks, args)

	w.Close(ctx)

	if err := w.DisplayReports(ctx, reports); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return formatErr
}

func (w *workflow) formatAll(ctx context.Context, hooks *bundler.Hooks, args FormatArgs) ([]m.FileReport, error) {
	reports := make([]m.FileReport, 0, len(args.Paths))

	var (
		reportsMutex sync.Mutex
		group        errgroup.Group
		failed       int
	)

	if args.Threads > 0 {
		group.SetLimit(args.Threads)
	}

	for _, path := range args.Paths {
		currentPath := path

		group.Go(func() error {
			w.FileStarted(ctx, currentPath)

			report := w.formatFile(ctx, hooks, currentPath, args)

			w.FileFinished(ctx, report)

			reportsMutex.Lock()
			defer reportsMutex.Unlock()

			reports = append(reports, report)
			if report.Err != nil {
				failed++
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return reports, err
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Source < reports[j].Source
	})

	if failed > 0 {
		return reports, fmt.Errorf("%d of %d file(s) failed to format", failed, len(args.Paths))
	}

	return reports, nil
}

func (w *workflow) formatFile(ctx context.Context, hooks *bundler.Hooks, path m.Path, args FormatArgs) m.FileReport {
	report := m.FileReport{Source: path, Output: w.outputPath(ctx, path, args.OutDir)}

	content, err := w.ReadFile(ctx, path)
	if err != nil {
		slog.Error("Failed to read source", "path", path, "error", err)
		report.Err = fmt.Errorf("failed to read %s: %w", path, err)

		return report
	}

	out := args.Output
	out.File = string(report.Output)

	chunk := bundler.Chunk{FileName: filepath.Base(string(path)), IsEntry: true}

	result, err := hooks.RenderChunk(adapter.WithFilePath(ctx, path), string(content), chunk, out)
	if err != nil {
		slog.Error("Failed to reformat", "path", path, "error", err)
		report.Err = err

		return report
	}

	code := result.Code
	report.Changed = code != string(content)

	if args.ShowDiff {
		report.Diff, err = adapter.UnifiedDiff(path, string(content), code)
		if err != nil {
			slog.Debug("Failed to render diff", "path", path, "error", err)
		}
	}

	if result.HasMap() {
		code, report.MapPath, err = w.attachMap(ctx, result, path, report.Output, args.Mode)
		if err != nil {
			report.Err = err
			return report
		}

		report.Mapped = true
	}

	if err := w.WriteFile(ctx, report.Output, []byte(code), outputFilePerm); err != nil {
		slog.Error("Failed to write output", "path", report.Output, "error", err)
		report.Err = fmt.Errorf("failed to write %s: %w", report.Output, err)
	}

	slog.Debug("Formatted file", "path", path, "output", report.Output, "changed", report.Changed, "mapped", report.Mapped)

	return report
}

func (w *workflow) outputPath(ctx context.Context, path, outDir m.Path) m.Path {
	if outDir == "" {
		return path
	}

	return w.JoinPath(ctx, string(outDir), filepath.Base(string(path)))
}

// attachMap encodes the map next to output (or inline) and returns the code
// with the matching sourceMappingURL comment.
func (w *workflow) attachMap(ctx context.Context, result m.Result, source, output m.Path, mode bundler.MapMode) (string, m.Path, error) {
	fileName := filepath.Base(string(output))

	doc := result.Map.EncodeV3(sourcemap.EncodeOptions{
		File:           fileName,
		Source:         w.sourceName(ctx, source, output),
		IncludeContent: true,
	})

	if mode == bundler.MapInline {
		url, err := doc.ToURL()
		if err != nil {
			return "", "", err
		}

		return appendMappingURL(result.Code, url), "", nil
	}

	data, err := doc.Marshal()
	if err != nil {
		return "", "", fmt.Errorf("failed to encode source map: %w", err)
	}

	mapPath := output + sourcemapExtension
	if err := w.WriteFile(ctx, mapPath, data, outputFilePerm); err != nil {
		slog.Error("Failed to write source map", "path", mapPath, "error", err)
		return "", "", fmt.Errorf("failed to write %s: %w", mapPath, err)
	}

	if mode == bundler.MapHidden {
		return result.Code, mapPath, nil
	}

	return appendMappingURL(result.Code, fileName+sourcemapExtension), mapPath, nil
}

// sourceName is the source path as seen from the map's directory.
func (w *workflow) sourceName(ctx context.Context, source, output m.Path) string {
	fallback := filepath.Base(string(source))

	absSource, err := w.AbsPath(ctx, source)
	if err != nil {
		return fallback
	}

	absOutput, err := w.AbsPath(ctx, output)
	if err != nil {
		return fallback
	}

	rel, err := w.RelPath(ctx, m.Path(filepath.Dir(string(absOutput))), absSource)
	if err != nil {
		return fallback
	}

	return filepath.ToSlash(string(rel))
}

func appendMappingURL(code, url string) string {
	if code != "" && !strings.HasSuffix(code, "\n") {
		code += "\n"
	}

	return code + sourceMappingURL + url + "\n"
}

func (w *workflow) Lookup(ctx context.Context, args LookupArgs) error {
	data, err := w.ReadFile(ctx, args.Map)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args.Map, err)
	}

	consumer, err := sourcemap.ParseConsumer(string(args.Map), data)
	if err != nil {
		return err
	}

	location, ok := consumer.Lookup(args.Line, args.Column)
	if !ok {
		return fmt.Errorf("no mapping for %d:%d in %s", args.Line, args.Column, args.Map)
	}

	return w.DisplayLocation(ctx, location)
}
