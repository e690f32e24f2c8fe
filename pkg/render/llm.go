package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/lineclass/pkg/report"
)

// LLM renders a report as terse plain text for AI consumption.
// Zero ANSI codes; failures first, then diagnostics.
type LLM struct {
	opts Options
}

// NewLLM creates an LLM renderer.
func NewLLM(opts Options) *LLM {
	return &LLM{opts: opts}
}

// Render formats the report for LLM consumption.
func (l *LLM) Render(r report.Report) string {
	var sb strings.Builder

	status := strings.ToUpper(r.Status())
	if l.opts.Label != "" {
		fmt.Fprintf(&sb, "%s %s", status, l.opts.Label)
	} else {
		sb.WriteString(status)
	}
	fmt.Fprintf(&sb, " tests=%d passed=%d failed=%d warnings=%d errors=%d\n",
		len(r.Tests), r.Passed(), r.Failed(), r.Warnings(), r.Errors())

	for _, t := range r.Tests {
		if !t.Pass {
			fmt.Fprintf(&sb, "FAIL %s\n", t.Key)
		}
	}
	if l.opts.Summary {
		return sb.String()
	}

	for _, f := range ordered(r.Failures, l.opts.Reverse) {
		fmt.Fprintf(&sb, "\n## %s\n", f.Key)
		for _, line := range f.Lines {
			sb.WriteString(line.Plain())
			sb.WriteString("\n")
		}
	}
	for _, d := range ordered(r.Diagnostics, l.opts.Reverse) {
		sb.WriteString("\n")
		for i, line := range d.Lines {
			if i == 0 {
				fmt.Fprintf(&sb, "%s %s\n", strings.ToUpper(d.Type.String()), strings.TrimSpace(line.Plain()))
				continue
			}
			sb.WriteString(line.Plain())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
