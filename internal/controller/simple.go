package controller

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/prettymap/internal/model"
	"github.com/mouse-blink/prettymap/internal/sourcemap"
)

const (
	yesLabel  = "yes"
	noLabel   = "no"
	failLabel = "error"
)

var (
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// SimpleUI implements UI using cobra Command's output streams.
type SimpleUI struct {
	cmd    *cobra.Command
	styled bool
	mu     sync.Mutex
}

// NewSimpleUI creates a new SimpleUI. styled enables terminal colors.
func NewSimpleUI(cmd *cobra.Command, styled bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, styled: styled}
}

// Warn prints an advisory line on stderr and records it in the log.
func (s *SimpleUI) Warn(line string) {
	slog.Warn(line)

	if s.styled {
		line = warnStyle.Render(line)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintln(s.cmd.ErrOrStderr(), line)
}

// Start logs the run. Plain output has no live progress.
func (s *SimpleUI) Start(_ context.Context, options ...StartOption) error {
	cfg := newStartConfig(options)
	slog.Debug("Starting format run", "files", len(cfg.files))

	return nil
}

// FileStarted records that path is being formatted.
func (s *SimpleUI) FileStarted(_ context.Context, path m.Path) {
	slog.Debug("Formatting file", "path", path)
}

// FileFinished records the outcome for one file.
func (s *SimpleUI) FileFinished(_ context.Context, report m.FileReport) {
	slog.Debug("Finished file", "path", report.Source, "failed", report.Err != nil)
}

// Close is a no-op for plain output.
func (s *SimpleUI) Close(_ context.Context) {}

// DisplayReports prints one table row per file, then any requested diffs and
// the failures below them.
func (s *SimpleUI) DisplayReports(ctx context.Context, reports []m.FileReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, line := range reportLines(reports, s.styled) {
		s.printf("%s\n", line)
	}

	return nil
}

// DisplayLocation prints an original position as file:line:column.
func (s *SimpleUI) DisplayLocation(ctx context.Context, location sourcemap.Location) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s:%d:%d\n", location.Source, location.Line, location.Column)

	return nil
}

// reportLines renders the summary table, the unified diffs and the failures
// as display lines.
func reportLines(reports []m.FileReport, styled bool) []string {
	lines := strings.Split(strings.TrimRight(renderReportTable(reports), "\n"), "\n")

	for _, report := range reports {
		if report.Diff == "" {
			continue
		}

		for _, line := range strings.Split(strings.TrimRight(report.Diff, "\n"), "\n") {
			lines = append(lines, styleDiffLine(line, styled))
		}
	}

	for _, report := range reports {
		if report.Err == nil {
			continue
		}

		line := fmt.Sprintf("%s: %v", report.Source, report.Err)
		if styled {
			line = errorStyle.Render(line)
		}

		lines = append(lines, line)
	}

	return lines
}

func styleDiffLine(line string, styled bool) string {
	if !styled {
		return line
	}

	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return headerStyle.Render(line)
	case strings.HasPrefix(line, "+"):
		return addedStyle.Render(line)
	case strings.HasPrefix(line, "-"):
		return removedStyle.Render(line)
	default:
		return line
	}
}

func renderReportTable(reports []m.FileReport) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Changed", "Sourcemap"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	changed, failed := 0, 0

	for _, report := range reports {
		if report.Err != nil {
			failed++

			table.Append([]string{string(report.Source), failLabel, ""})

			continue
		}

		if report.Changed {
			changed++
		}

		table.Append([]string{string(report.Output), boolLabel(report.Changed), mapLabel(report)})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(reports)),
		fmt.Sprintf("%d changed", changed),
		fmt.Sprintf("%d failed", failed),
	})

	table.Render()

	return tableBuffer.String()
}

func boolLabel(v bool) string {
	if v {
		return yesLabel
	}

	return noLabel
}

func mapLabel(report m.FileReport) string {
	switch {
	case !report.Mapped:
		return "-"
	case report.MapPath == "":
		return "inline"
	default:
		return string(report.MapPath)
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
