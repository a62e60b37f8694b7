package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	m "github.com/mouse-blink/prettymap/internal/model"
	"github.com/mouse-blink/prettymap/internal/sourcemap"
)

const (
	defaultProgressWidth = 60
	// Active and failed files shown under the progress bar at most.
	maxProgressRows = 8
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// TUI implements UI using Bubble Tea: live progress while files are
// formatted and a pager for long reports.
type TUI struct {
	output io.Writer

	mu      sync.Mutex
	program *tea.Program
	done    chan error
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress view for the announced files.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	cfg := newStartConfig(options)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return errors.New("progress view already running")
	}

	model := newProgressModel(cfg.files)
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithOutput(t.output),
		tea.WithInput(nil),
	)

	done := make(chan error, 1)

	go func() {
		_, err := program.Run()
		done <- err
	}()

	t.program = program
	t.done = done

	return nil
}

// FileStarted marks path as being formatted.
func (t *TUI) FileStarted(_ context.Context, path m.Path) {
	t.send(fileStartedMsg{path: path})
}

// FileFinished records the outcome of one file and advances the bar.
func (t *TUI) FileFinished(_ context.Context, report m.FileReport) {
	t.send(fileFinishedMsg{report: report})
}

// Close stops the progress view and waits for its last frame.
func (t *TUI) Close(_ context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Send(progressDoneMsg{})

	if err := <-done; err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		slog.Error("Progress view failed", "error", err)
	}
}

// Warn prints an advisory line above the progress view, or directly when no
// view is running.
func (t *TUI) Warn(line string) {
	slog.Warn(line)

	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	styled := warnStyle.Render(line)

	if program != nil {
		program.Println(styled)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	_, _ = fmt.Fprintln(t.output, styled)
}

// DisplayReports prints the report, paging through it when it does not fit
// on the terminal.
func (t *TUI) DisplayReports(ctx context.Context, reports []m.FileReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newReportModel(reportLines(reports, true))

	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(f.Fd())
		if err == nil {
			model.height = height
			model.width = width
		}
	}

	// If the report is small, just print and exit
	if !model.needsPagination() {
		_, err := fmt.Fprint(t.output, model.View())
		return err
	}

	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// DisplayLocation prints an original position as file:line:column.
func (t *TUI) DisplayLocation(ctx context.Context, location sourcemap.Location) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(t.output, "%s:%d:%d\n", location.Source, location.Line, location.Column)

	return err
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

type fileState int

const (
	fileQueued fileState = iota
	fileFormatting
	fileDone
	fileFailed
)

type progressItem struct {
	path  m.Path
	state fileState
}

type (
	fileStartedMsg  struct{ path m.Path }
	fileFinishedMsg struct{ report m.FileReport }
	progressDoneMsg struct{}
)

// progressModel renders the live state of a format run.
type progressModel struct {
	items    []progressItem
	index    map[m.Path]int
	spinner  spinner.Model
	bar      progress.Model
	finished int
	failed   int
	done     bool
}

func newProgressModel(files []m.Path) *progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = defaultProgressWidth

	items := make([]progressItem, 0, len(files))
	index := make(map[m.Path]int, len(files))

	for i, file := range files {
		items = append(items, progressItem{path: file, state: fileQueued})
		index[file] = i
	}

	return &progressModel{
		items:   items,
		index:   index,
		spinner: sp,
		bar:     bar,
	}
}

func (pm *progressModel) Init() tea.Cmd {
	return pm.spinner.Tick
}

func (pm *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fileStartedMsg:
		pm.setState(msg.path, fileFormatting)
		return pm, nil

	case fileFinishedMsg:
		state := fileDone
		if msg.report.Err != nil {
			state = fileFailed
			pm.failed++
		}

		pm.setState(msg.report.Source, state)
		pm.finished++

		return pm, pm.bar.SetPercent(pm.percent())

	case progressDoneMsg:
		pm.done = true
		return pm, tea.Quit

	case spinner.TickMsg:
		if pm.done {
			return pm, nil
		}

		var cmd tea.Cmd
		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd

	case tea.WindowSizeMsg:
		if msg.Width > 4 {
			pm.bar.Width = min(msg.Width-4, defaultProgressWidth*2)
		}

		return pm, nil

	case progress.FrameMsg:
		bar, cmd := pm.bar.Update(msg)
		pm.bar = bar.(progress.Model)

		return pm, cmd
	}

	return pm, nil
}

func (pm *progressModel) setState(path m.Path, state fileState) {
	if i, ok := pm.index[path]; ok {
		pm.items[i].state = state
	}
}

func (pm *progressModel) percent() float64 {
	if len(pm.items) == 0 {
		return 1
	}

	return float64(pm.finished) / float64(len(pm.items))
}

func (pm *progressModel) View() string {
	var b strings.Builder

	header := fmt.Sprintf("Formatting %d/%d file(s)", pm.finished, len(pm.items))
	if pm.failed > 0 {
		header += fmt.Sprintf(", %d failed", pm.failed)
	}

	if pm.done {
		b.WriteString(titleStyle.Render("done: " + header))
	} else {
		b.WriteString(pm.spinner.View() + " " + titleStyle.Render(header))
	}

	b.WriteString("\n\n")

	for _, row := range pm.visibleRows() {
		b.WriteString("  " + row + "\n")
	}

	b.WriteString("\n")

	if pm.done {
		b.WriteString(pm.bar.ViewAs(pm.percent()))
	} else {
		b.WriteString(pm.bar.View())
	}

	b.WriteString("\n")

	return b.String()
}

// visibleRows lists files being formatted first, then failures.
func (pm *progressModel) visibleRows() []string {
	rows := make([]string, 0, maxProgressRows)

	for _, state := range []fileState{fileFormatting, fileFailed} {
		for _, item := range pm.items {
			if item.state != state {
				continue
			}

			if len(rows) == maxProgressRows {
				return append(rows, mutedStyle.Render("..."))
			}

			rows = append(rows, renderProgressItem(item))
		}
	}

	return rows
}

func renderProgressItem(item progressItem) string {
	switch item.state {
	case fileFormatting:
		return workingStyle.Render(fmt.Sprintf("%-10s", "formatting")) + " " + string(item.path)
	case fileFailed:
		return errorStyle.Render(fmt.Sprintf("%-10s", failLabel)) + " " + string(item.path)
	case fileDone:
		return doneStyle.Render(fmt.Sprintf("%-10s", "done")) + " " + string(item.path)
	default:
		return mutedStyle.Render(fmt.Sprintf("%-10s", "queued")) + " " + string(item.path)
	}
}

// reportModel pages through report lines.
type reportModel struct {
	lines    []string
	height   int
	width    int
	offset   int
	quitting bool
}

func newReportModel(lines []string) reportModel {
	return reportModel{lines: lines}
}

func (rm reportModel) Init() tea.Cmd {
	return nil
}

func (rm reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.height = msg.Height
		rm.width = msg.Width

		return rm, nil

	case tea.KeyMsg:
		return rm.handleKeyPress(msg)
	}

	return rm, nil
}

func (rm reportModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // We only handle specific navigation keys
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		rm.quitting = true
		return rm, tea.Quit
	default:
		// Handle other key types in the string switch below
	}

	switch msg.String() {
	case "q":
		rm.quitting = true
		return rm, tea.Quit

	case "down", "j":
		return rm.scrollTo(rm.offset + 1), nil

	case "up", "k":
		return rm.scrollTo(rm.offset - 1), nil

	case "g", "home":
		return rm.scrollTo(0), nil

	case "G", "end":
		return rm.scrollTo(rm.maxOffset()), nil

	case "d", "pgdown":
		return rm.scrollTo(rm.offset + rm.linesPerPage()), nil

	case "u", "pgup":
		return rm.scrollTo(rm.offset - rm.linesPerPage()), nil
	}

	return rm, nil
}

func (rm reportModel) scrollTo(offset int) reportModel {
	rm.offset = max(0, min(offset, rm.maxOffset()))
	return rm
}

func (rm reportModel) linesPerPage() int {
	if rm.height == 0 {
		return 10
	}
	// Reserved lines:
	// - Footer (blank + position + help): 3 lines
	// - Top margin: 1 line
	reserved := 4

	available := rm.height - reserved
	if available < 1 {
		return 1
	}

	return available
}

func (rm reportModel) maxOffset() int {
	return max(0, len(rm.lines)-rm.linesPerPage())
}

func (rm reportModel) needsPagination() bool {
	if rm.height == 0 {
		return false
	}

	return len(rm.lines) > rm.linesPerPage()
}

func (rm reportModel) View() string {
	var b strings.Builder

	visible := rm.lines
	needsPagination := rm.needsPagination()

	if needsPagination {
		end := min(rm.offset+rm.linesPerPage(), len(rm.lines))
		visible = rm.lines[rm.offset:end]
	}

	for _, line := range visible {
		fmt.Fprintf(&b, "%s\n", line)
	}

	if needsPagination {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  Lines %d-%d of %d\n",
			rm.offset+1, rm.offset+len(visible), len(rm.lines))
		b.WriteString("  ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit\n")
	}

	return b.String()
}
