// Package render turns a test report into terminal, LLM or JSON output.
package render

import (
	"github.com/dkoosis/lineclass/pkg/report"
)

// Renderer converts a report to formatted output.
type Renderer interface {
	Render(r report.Report) string
}

// Options control what a renderer shows.
type Options struct {
	Label   string // heading, usually the job name
	Summary bool   // counts only, no failure output or diagnostics
	Wrap    bool   // wrap long output lines instead of truncating them
	Reverse bool   // newest failures and diagnostics first
	Width   int    // terminal width; <= 0 means 80
}

func (o Options) width() int {
	if o.Width <= 0 {
		return 80
	}
	return o.Width
}

// ordered returns items in display order.
func ordered[T any](items []T, reverse bool) []T {
	if !reverse {
		return items
	}
	out := make([]T, len(items))
	for i, it := range items {
		out[len(items)-1-i] = it
	}
	return out
}

// New returns the renderer for format: "terminal", "llm" or "json".
// Unknown formats fall back to llm.
func New(format string, theme Theme, opts Options) Renderer {
	switch format {
	case "json":
		return NewJSON()
	case "terminal":
		return NewTerminal(theme, opts)
	default:
		return NewLLM(opts)
	}
}
