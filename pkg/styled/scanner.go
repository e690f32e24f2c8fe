package styled

import (
	"bufio"
	"fmt"
	"io"
)

// DefaultMaxLineLength bounds a single captured line.
const DefaultMaxLineLength = 1024 * 1024

// Scanner reads raw terminal output and yields decoded lines.
type Scanner struct {
	sc   *bufio.Scanner
	line Line
	raw  string
}

// NewScanner returns a Scanner over r. maxLine <= 0 selects DefaultMaxLineLength.
func NewScanner(r io.Reader, maxLine int) *Scanner {
	if maxLine <= 0 {
		maxLine = DefaultMaxLineLength
	}
	initial := 64 * 1024
	if maxLine < initial {
		initial = maxLine
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initial), maxLine)
	return &Scanner{sc: sc}
}

// Scan advances to the next line.
func (s *Scanner) Scan() bool {
	if !s.sc.Scan() {
		return false
	}
	s.raw = s.sc.Text()
	s.line = Parse(s.raw)
	return true
}

// Line returns the most recently decoded line.
func (s *Scanner) Line() Line {
	return s.line
}

// Raw returns the undecoded text of the most recent line.
func (s *Scanner) Raw() string {
	return s.raw
}

// Err returns the first non-EOF error.
func (s *Scanner) Err() error {
	if err := s.sc.Err(); err != nil {
		return fmt.Errorf("scanning output: %w", err)
	}
	return nil
}
