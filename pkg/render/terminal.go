package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/lineclass/pkg/analysis"
	"github.com/dkoosis/lineclass/pkg/report"
	"github.com/dkoosis/lineclass/pkg/styled"
)

const outputIndent = "    "

// Terminal renders a report as styled terminal output via lipgloss.
type Terminal struct {
	theme  Theme
	opts   Options
	titler cases.Caser
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, opts Options) *Terminal {
	return &Terminal{theme: theme, opts: opts, titler: cases.Title(language.English)}
}

// Render formats the report for terminal display.
func (t *Terminal) Render(r report.Report) string {
	var sections []string
	if s := t.renderHeader(r); s != "" {
		sections = append(sections, s)
	}
	if !t.opts.Summary {
		if s := t.renderFailures(r); s != "" {
			sections = append(sections, s)
		}
		if s := t.renderDiagnostics(r); s != "" {
			sections = append(sections, s)
		}
	}
	sections = append(sections, t.renderStatus(r))
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderHeader(r report.Report) string {
	var sb strings.Builder
	if t.opts.Label != "" {
		sb.WriteString(t.theme.Heading.Render(t.opts.Label))
		sb.WriteString("\n")
	}
	if len(r.Tests) == 0 {
		return sb.String()
	}
	maxKey := t.opts.width() - 6
	for _, test := range r.Tests {
		if test.Pass {
			continue
		}
		sb.WriteString("  ")
		sb.WriteString(t.theme.Fail.Render(t.theme.Icons.Fail))
		sb.WriteString(" ")
		sb.WriteString(runewidth.Truncate(test.Key, maxKey, "…"))
		sb.WriteString("\n")
	}
	sb.WriteString("  ")
	sb.WriteString(t.theme.Pass.Render(fmt.Sprintf("%s %d passed", t.theme.Icons.Pass, r.Passed())))
	sb.WriteString("\n")
	return sb.String()
}

func (t *Terminal) renderFailures(r report.Report) string {
	if len(r.Failures) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(t.theme.Heading.Render("Failures"))
	sb.WriteString("\n")
	for _, f := range ordered(r.Failures, t.opts.Reverse) {
		sb.WriteString("  ")
		sb.WriteString(t.theme.Fail.Render(t.theme.Icons.Fail + " " + f.Key))
		sb.WriteString("\n")
		for _, line := range f.Lines {
			t.writeOutputLine(&sb, line)
		}
	}
	return sb.String()
}

func (t *Terminal) renderDiagnostics(r report.Report) string {
	if len(r.Diagnostics) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(t.theme.Heading.Render("Diagnostics"))
	sb.WriteString("\n")
	for _, d := range ordered(r.Diagnostics, t.opts.Reverse) {
		icon, style := t.diagnosticIconStyle(d.Type)
		head := ""
		if len(d.Lines) > 0 {
			head = strings.TrimSpace(d.Lines[0].Plain())
		}
		sb.WriteString("  ")
		sb.WriteString(style.Render(icon + " " + t.titler.String(d.Type.String())))
		sb.WriteString(" ")
		sb.WriteString(head)
		sb.WriteString("\n")
		for _, line := range d.Lines[min(1, len(d.Lines)):] {
			t.writeOutputLine(&sb, line)
		}
	}
	return sb.String()
}

// writeOutputLine writes one captured line, indented, fitted to the width.
func (t *Terminal) writeOutputLine(sb *strings.Builder, line styled.Line) {
	avail := t.opts.width() - len(outputIndent)
	if avail < 10 {
		avail = 10
	}
	text := line.Plain()
	if runewidth.StringWidth(text) <= avail {
		sb.WriteString(outputIndent)
		if t.theme.KeepToolColors {
			sb.WriteString(line.String())
		} else {
			sb.WriteString(t.theme.Output.Render(text))
		}
		sb.WriteString("\n")
		return
	}
	if !t.opts.Wrap {
		sb.WriteString(outputIndent)
		sb.WriteString(t.theme.Output.Render(runewidth.Truncate(text, avail, "…")))
		sb.WriteString("\n")
		return
	}
	for _, part := range strings.Split(runewidth.Wrap(text, avail), "\n") {
		sb.WriteString(outputIndent)
		sb.WriteString(t.theme.Output.Render(part))
		sb.WriteString("\n")
	}
}

func (t *Terminal) renderStatus(r report.Report) string {
	var (
		text  string
		style lipgloss.Style
	)
	switch r.Status() {
	case "fail":
		style = t.theme.Fail
		text = fmt.Sprintf("FAIL %d/%d tests failed", r.Failed(), len(r.Tests))
	case "pass":
		style = t.theme.Pass
		text = fmt.Sprintf("PASS %d tests", len(r.Tests))
	default:
		style = t.theme.Output
		text = "no test results"
	}
	if w, e := r.Warnings(), r.Errors(); w > 0 || e > 0 {
		text += fmt.Sprintf(", %d warnings, %d errors", w, e)
	}
	return style.Render(text) + "\n"
}

func (t *Terminal) diagnosticIconStyle(kind analysis.LineType) (string, lipgloss.Style) {
	switch kind {
	case analysis.Error:
		return t.theme.Icons.Error, t.theme.Fail
	case analysis.Warning:
		return t.theme.Icons.Warning, t.theme.Warning
	default:
		return t.theme.Icons.Location, t.theme.Location
	}
}
