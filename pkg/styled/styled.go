// Package styled models one line of captured terminal output as an ordered
// sequence of runs, each run carrying the exact style escape that applied to it.
package styled

import "strings"

// Tag identifies a color/weight combination by the SGR sequence that produced it.
// The empty tag means no explicit style. Tags are compared by value only.
type Tag string

// Palette of the tags emitted by cargo and cargo-nextest.
const (
	TagNone     Tag = ""
	TagTitle    Tag = "\x1b[35;1m"
	TagPass     Tag = "\x1b[32;1m"
	TagError    Tag = "\x1b[31;1m"
	TagWarning  Tag = "\x1b[33;1m"
	TagLocation Tag = "\x1b[34;1m"
	TagBold     Tag = "\x1b[1m"
)

const sgrReset = "\x1b[0m"

// Run is a contiguous fragment of a line sharing one style.
// Text is kept verbatim, whitespace included.
type Run struct {
	Tag  Tag
	Text string
}

// NewRun returns a run of text styled with tag.
func NewRun(tag Tag, text string) Run {
	return Run{Tag: tag, Text: text}
}

// Line is an ordered, left-to-right sequence of runs. A Line may have no runs.
type Line struct {
	Runs []Run
}

// NewLine builds a line from runs. The slice is copied.
func NewLine(runs ...Run) Line {
	cp := make([]Run, len(runs))
	copy(cp, runs)
	return Line{Runs: cp}
}

// Len returns the number of runs.
func (l Line) Len() int {
	return len(l.Runs)
}

// Run returns the run at index i, and false when i is out of range.
func (l Line) Run(i int) (Run, bool) {
	if i < 0 || i >= len(l.Runs) {
		return Run{}, false
	}
	return l.Runs[i], true
}

// Unstyled returns the line's text when no run carries a style.
func (l Line) Unstyled() (string, bool) {
	for _, r := range l.Runs {
		if r.Tag != TagNone {
			return "", false
		}
	}
	return l.Plain(), true
}

// Plain returns the concatenated text of all runs.
func (l Line) Plain() string {
	var sb strings.Builder
	for _, r := range l.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// String re-encodes the line with its style sequences.
func (l Line) String() string {
	var sb strings.Builder
	for _, r := range l.Runs {
		if r.Tag == TagNone {
			sb.WriteString(r.Text)
			continue
		}
		sb.WriteString(string(r.Tag))
		sb.WriteString(r.Text)
		sb.WriteString(sgrReset)
	}
	return sb.String()
}

// Cursor walks the runs of a line front to back.
type Cursor struct {
	runs []Run
	pos  int
}

// Cursor returns a cursor positioned before the first run.
func (l Line) Cursor() *Cursor {
	return &Cursor{runs: l.Runs}
}

// Next returns the next run and advances, or false when exhausted.
func (c *Cursor) Next() (Run, bool) {
	if c.pos >= len(c.runs) {
		return Run{}, false
	}
	r := c.runs[c.pos]
	c.pos++
	return r, true
}

// Skip advances past n runs, stopping early at the end.
func (c *Cursor) Skip(n int) {
	c.pos += n
	if c.pos > len(c.runs) {
		c.pos = len(c.runs)
	}
}

// More reports whether runs remain.
func (c *Cursor) More() bool {
	return c.pos < len(c.runs)
}
