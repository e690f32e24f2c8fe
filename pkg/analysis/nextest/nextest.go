// Package nextest classifies lines of cargo-nextest terminal output.
//
// The only reliable signal in nextest's human-oriented output is the exact text
// of each fragment together with the style applied to it, so every shape below
// matches on both. A line that matches no shape goes to the fallback analyzer.
package nextest

import (
	"regexp"
	"strings"

	"github.com/dkoosis/lineclass/pkg/analysis"
	"github.com/dkoosis/lineclass/pkg/analysis/standard"
	"github.com/dkoosis/lineclass/pkg/styled"
)

var (
	stdStreamRegex = regexp.MustCompile(`^STD(OUT|ERR):\s*$`)
	runningRegex   = regexp.MustCompile(`^running \d+ tests?$`)
)

// matcher recognizes one line shape. ok is false when the shape does not apply.
type matcher func(line styled.Line) (a analysis.Analysis, ok bool)

// shapes are tried in order; the first match wins.
var shapes = []struct {
	name  string
	match matcher
}{
	{"title", matchTitle},
	{"result", matchResult},
	{"canceling", matchCanceling},
	{"run-failed", matchRunFailed},
	{"plain", matchPlain},
}

// Analyzer classifies nextest output, deferring unmatched lines to a fallback.
type Analyzer struct {
	fallback analysis.Analyzer
}

// New returns an Analyzer. A nil fallback selects the standard cargo analyzer.
func New(fallback analysis.Analyzer) *Analyzer {
	if fallback == nil {
		fallback = standard.New()
	}
	return &Analyzer{fallback: fallback}
}

// Analyze classifies line. It always returns a value.
func (an *Analyzer) Analyze(line styled.Line) analysis.Analysis {
	for _, s := range shapes {
		if a, ok := s.match(line); ok {
			return a
		}
	}
	return an.fallback.Analyze(line)
}

// Shape returns the name of the shape matching line, or "" when none does.
func Shape(line styled.Line) string {
	for _, s := range shapes {
		if _, ok := s.match(line); ok {
			return s.name
		}
	}
	return ""
}

// matchTitle recognizes "--- STDOUT: <pkg> <key> ---" and its STDERR twin.
func matchTitle(line styled.Line) (analysis.Analysis, bool) {
	c := line.Cursor()
	first, ok1 := c.Next()
	second, ok2 := c.Next()
	if !ok1 || !ok2 {
		return analysis.Analysis{}, false
	}
	if first.Text != "--- " {
		return analysis.Analysis{}, false
	}
	if !stdStreamRegex.MatchString(strings.TrimSpace(second.Text)) {
		return analysis.Analysis{}, false
	}
	key, ok := extractKey(c)
	if !ok {
		return analysis.Analysis{}, false
	}
	return analysis.TitleKey(key), true
}

// matchResult recognizes "PASS [duration] <pkg> <key>" and "FAIL [...]".
// The duration is required but never parsed.
func matchResult(line styled.Line) (analysis.Analysis, bool) {
	c := line.Cursor()
	first, ok := c.Next()
	if !ok {
		return analysis.Analysis{}, false
	}
	var pass bool
	switch {
	case first.Tag == styled.TagPass && strings.TrimSpace(first.Text) == "PASS":
		pass = true
	case first.Tag == styled.TagError && strings.TrimSpace(first.Text) == "FAIL":
		pass = false
	default:
		return analysis.Analysis{}, false
	}
	duration, ok := c.Next()
	if !ok || duration.Tag != styled.TagNone {
		return analysis.Analysis{}, false
	}
	key, ok := extractKey(c)
	if !ok {
		return analysis.Analysis{}, false
	}
	return analysis.TestResultOf(key, pass), true
}

// matchCanceling recognizes the fail-fast "Canceling due to test failure" notice.
func matchCanceling(line styled.Line) (analysis.Analysis, bool) {
	first, ok := line.Run(0)
	if !ok || first.Tag != styled.TagError || strings.TrimSpace(first.Text) != "Canceling" {
		return analysis.Analysis{}, false
	}
	return analysis.OfType(analysis.SectionEnd), true
}

// matchRunFailed recognizes the redundant "error: test run failed" trailer.
func matchRunFailed(line styled.Line) (analysis.Analysis, bool) {
	if line.Len() != 2 {
		return analysis.Analysis{}, false
	}
	first, second := line.Runs[0], line.Runs[1]
	if first.Tag != styled.TagError ||
		strings.TrimSpace(first.Text) != "error" ||
		strings.TrimSpace(second.Text) != ": test run failed" {
		return analysis.Analysis{}, false
	}
	return analysis.OfType(analysis.Garbage), true
}

// matchPlain handles unstyled banner and divider lines.
func matchPlain(line styled.Line) (analysis.Analysis, bool) {
	text, ok := line.Unstyled()
	if !ok {
		return analysis.Analysis{}, false
	}
	if runningRegex.MatchString(text) {
		return analysis.OfType(analysis.Garbage), true
	}
	if text == "------------" {
		return analysis.OfType(analysis.SectionEnd), true
	}
	return analysis.Analysis{}, false
}
