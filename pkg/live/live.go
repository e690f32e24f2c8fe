// Package live shows a classified test run as it streams in.
package live

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkoosis/lineclass/pkg/analysis"
	"github.com/dkoosis/lineclass/pkg/render"
	"github.com/dkoosis/lineclass/pkg/report"
	"github.com/dkoosis/lineclass/pkg/styled"
)

// Config wires the live view.
type Config struct {
	Analyzer analysis.Analyzer
	Theme    render.Theme
	Options  render.Options
	// Builder options, typically ignored-line patterns.
	Report []report.Option
	// GracePeriod coalesces redraws after a burst of lines. Zero redraws on every line.
	GracePeriod time.Duration
	// HelpLine shows the key bindings under the viewport.
	HelpLine bool
}

// Run displays lines as they arrive and returns the report built from them
// once the user quits. Cancelling ctx or interrupting the program also ends
// the view and returns the report built so far.
func Run(ctx context.Context, lines <-chan string, cfg Config, opts ...tea.ProgramOption) (report.Report, error) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	m := newModel(lines, cfg)
	_, err := tea.NewProgram(m, opts...).Run()
	return finish(m.builder, err)
}

// finish returns the builder's report unless the program failed for a
// reason other than being stopped.
func finish(b *report.Builder, err error) (report.Report, error) {
	switch {
	case err == nil,
		errors.Is(err, tea.ErrProgramKilled),
		errors.Is(err, tea.ErrInterrupted),
		errors.Is(err, context.Canceled):
		return b.Report(), nil
	default:
		return report.Report{}, fmt.Errorf("live view: %w", err)
	}
}

// Lines streams the raw lines of r until EOF or until ctx is done. The line
// channel is closed when reading stops, after which errs yields the read
// error (nil at EOF). A blocked read of r is not interrupted by ctx.
func Lines(ctx context.Context, r io.Reader, maxLine int) (lines <-chan string, errs <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		sc := styled.NewScanner(r, maxLine)
		for sc.Scan() {
			select {
			case out <- sc.Raw():
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- sc.Err()
	}()
	return out, errc
}

type lineMsg string
type doneMsg struct{}
type redrawMsg struct{}

type model struct {
	lines    <-chan string
	cfg      Config
	builder  *report.Builder
	spinner  spinner.Model
	viewport viewport.Model
	count    int
	done     bool
	pending  bool // a redraw is scheduled
	quitting bool
	ready    bool
}

func newModel(lines <-chan string, cfg Config) model {
	if cfg.Analyzer == nil {
		cfg.Analyzer = analysis.Func(func(styled.Line) analysis.Analysis { return analysis.OfType(analysis.Normal) })
	}
	return model{
		lines:    lines,
		cfg:      cfg,
		builder:  report.NewBuilder(cfg.Report...),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		viewport: viewport.New(cfg.Options.Width, 20),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m model) listen() tea.Cmd {
	return func() tea.Msg {
		line, ok := <-m.lines
		if !ok {
			return doneMsg{}
		}
		return lineMsg(line)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.cfg.Options.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-m.chromeHeight(), 1)
		m.ready = true
		m.redraw()
		return m, nil
	case lineMsg:
		line := styled.Parse(string(msg))
		m.builder.Add(line, m.cfg.Analyzer.Analyze(line))
		m.count++
		redraw := m.scheduleRedraw()
		return m, tea.Batch(m.listen(), redraw)
	case redrawMsg:
		m.pending = false
		m.redraw()
		return m, nil
	case doneMsg:
		m.done = true
		m.redraw()
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// scheduleRedraw returns a command that redraws after the grace period,
// unless one is already pending.
func (m *model) scheduleRedraw() tea.Cmd {
	if m.cfg.GracePeriod <= 0 {
		m.redraw()
		return nil
	}
	if m.pending {
		return nil
	}
	m.pending = true
	return tea.Tick(m.cfg.GracePeriod, func(time.Time) tea.Msg { return redrawMsg{} })
}

func (m *model) redraw() {
	r := render.NewTerminal(m.cfg.Theme, m.cfg.Options)
	m.viewport.SetContent(r.Render(m.builder.Report()))
	if !m.cfg.Options.Reverse {
		m.viewport.GotoBottom()
	}
}

func (m model) chromeHeight() int {
	if m.cfg.HelpLine {
		return 2
	}
	return 1
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(m.statusLine())
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	if m.cfg.HelpLine {
		sb.WriteString("\n")
		sb.WriteString(m.cfg.Theme.Output.Render("q quit · ↑/↓ scroll"))
	}
	return sb.String()
}

func (m model) statusLine() string {
	r := m.builder.Report()
	icons := m.cfg.Theme.Icons
	prefix := m.spinner.View()
	if m.done {
		prefix = icons.Pass
	}
	state := "running"
	if m.done {
		state = "finished"
	}
	return fmt.Sprintf("%s %s %s  %d lines  %s %d  %s %d  %s %d",
		prefix, m.cfg.Options.Label, state, m.count,
		m.cfg.Theme.Pass.Render(icons.Pass), r.Passed(),
		m.cfg.Theme.Fail.Render(icons.Fail), r.Failed(),
		m.cfg.Theme.Warning.Render(icons.Warning), r.Warnings()+r.Errors())
}
