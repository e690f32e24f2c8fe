// Package report groups classified output lines into a summary of test
// outcomes, captured failure output and compiler diagnostics.
package report

import (
	"regexp"

	"github.com/dkoosis/lineclass/pkg/analysis"
	"github.com/dkoosis/lineclass/pkg/styled"
)

// TestOutcome is the last reported result of one test.
type TestOutcome struct {
	Key  string `json:"key"`
	Pass bool   `json:"pass"`
}

// FailureBlock is the output captured for one failing test. STDOUT and STDERR
// blocks of the same test are merged in arrival order.
type FailureBlock struct {
	Key   string        `json:"key"`
	Lines []styled.Line `json:"-"`
}

// Diagnostic is a compiler warning or error with the lines that follow it.
type Diagnostic struct {
	Type  analysis.LineType `json:"type"`
	Lines []styled.Line     `json:"-"`
}

// Report is an immutable snapshot of a builder.
type Report struct {
	Tests       []TestOutcome  `json:"tests"`
	Failures    []FailureBlock `json:"failures"`
	Diagnostics []Diagnostic   `json:"diagnostics"`
	Lines       int            `json:"lines"`
	Garbage     int            `json:"garbage"`
	Ignored     int            `json:"ignored"`
}

// Passed returns the number of passing tests.
func (r Report) Passed() int {
	n := 0
	for _, t := range r.Tests {
		if t.Pass {
			n++
		}
	}
	return n
}

// Failed returns the number of failing tests.
func (r Report) Failed() int {
	return len(r.Tests) - r.Passed()
}

// Warnings returns the number of warning diagnostics.
func (r Report) Warnings() int {
	return r.count(analysis.Warning)
}

// Errors returns the number of error diagnostics.
func (r Report) Errors() int {
	return r.count(analysis.Error)
}

func (r Report) count(t analysis.LineType) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Type == t {
			n++
		}
	}
	return n
}

// Status returns "fail", "pass" or "empty".
func (r Report) Status() string {
	switch {
	case r.Failed() > 0 || r.Errors() > 0:
		return "fail"
	case len(r.Tests) > 0 || len(r.Diagnostics) > 0:
		return "pass"
	default:
		return "empty"
	}
}

// Option configures a Builder.
type Option func(*Builder)

// WithIgnoredLines drops every line whose plain text matches one of patterns.
func WithIgnoredLines(patterns []*regexp.Regexp) Option {
	return func(b *Builder) {
		b.ignore = patterns
	}
}

// Builder accumulates classified lines. Lines must be added in the order the
// tool produced them. A Builder is not safe for concurrent use.
type Builder struct {
	ignore []*regexp.Regexp

	tests     []TestOutcome
	testIndex map[string]int

	failures     []FailureBlock
	failureIndex map[string]int
	openFailure  int // index into failures, -1 when closed

	diagnostics []Diagnostic
	openDiag    int // index into diagnostics, -1 when closed

	lines, garbage, ignored int
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		testIndex:    make(map[string]int),
		failureIndex: make(map[string]int),
		openFailure:  -1,
		openDiag:     -1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add records one line and its classification.
func (b *Builder) Add(line styled.Line, a analysis.Analysis) {
	b.lines++
	if b.isIgnored(line) {
		b.ignored++
		return
	}

	switch a.Type {
	case analysis.Garbage:
		b.garbage++
	case analysis.TestFail:
		b.closeAll()
		b.openFailureBlock(a.Key)
	case analysis.SectionEnd:
		b.closeAll()
	case analysis.TestResult:
		b.closeAll()
		pass, _ := a.Outcome()
		b.recordOutcome(a.Key, pass)
	case analysis.Warning, analysis.Error:
		b.closeAll()
		b.diagnostics = append(b.diagnostics, Diagnostic{Type: a.Type, Lines: []styled.Line{line}})
		b.openDiag = len(b.diagnostics) - 1
	default:
		b.appendToOpen(line)
	}
}

func (b *Builder) isIgnored(line styled.Line) bool {
	if len(b.ignore) == 0 {
		return false
	}
	text := line.Plain()
	for _, re := range b.ignore {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func (b *Builder) closeAll() {
	b.openFailure = -1
	b.openDiag = -1
}

func (b *Builder) openFailureBlock(key string) {
	if i, ok := b.failureIndex[key]; ok {
		b.openFailure = i
		return
	}
	b.failures = append(b.failures, FailureBlock{Key: key})
	b.openFailure = len(b.failures) - 1
	b.failureIndex[key] = b.openFailure
}

func (b *Builder) recordOutcome(key string, pass bool) {
	if i, ok := b.testIndex[key]; ok {
		b.tests[i].Pass = pass
		return
	}
	b.testIndex[key] = len(b.tests)
	b.tests = append(b.tests, TestOutcome{Key: key, Pass: pass})
}

// appendToOpen attaches a Normal or Location line to the open group. A blank
// line ends a diagnostic; captured test output keeps its blank lines.
func (b *Builder) appendToOpen(line styled.Line) {
	switch {
	case b.openFailure >= 0:
		f := &b.failures[b.openFailure]
		f.Lines = append(f.Lines, line)
	case b.openDiag >= 0:
		if text, ok := line.Unstyled(); ok && text == "" {
			b.openDiag = -1
			return
		}
		d := &b.diagnostics[b.openDiag]
		d.Lines = append(d.Lines, line)
	}
}

// Report returns a snapshot that later Adds do not affect.
func (b *Builder) Report() Report {
	r := Report{
		Tests:       append([]TestOutcome(nil), b.tests...),
		Failures:    make([]FailureBlock, len(b.failures)),
		Diagnostics: make([]Diagnostic, len(b.diagnostics)),
		Lines:       b.lines,
		Garbage:     b.garbage,
		Ignored:     b.ignored,
	}
	for i, f := range b.failures {
		r.Failures[i] = FailureBlock{Key: f.Key, Lines: append([]styled.Line(nil), f.Lines...)}
	}
	for i, d := range b.diagnostics {
		r.Diagnostics[i] = Diagnostic{Type: d.Type, Lines: append([]styled.Line(nil), d.Lines...)}
	}
	return r
}

// Build folds pre-classified lines into a Report. Lines without a matching
// result are dropped.
func Build(lines []styled.Line, results []analysis.Analysis, opts ...Option) Report {
	b := NewBuilder(opts...)
	for i := range lines {
		if i >= len(results) {
			break
		}
		b.Add(lines[i], results[i])
	}
	return b.Report()
}
