// Package analysis defines the classification of captured output lines and the
// Analyzer contract shared by the tool-specific and generic classifiers.
package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/dkoosis/lineclass/pkg/styled"
)

// LineType is what a line means to the grouping layer.
type LineType int

const (
	Normal     LineType = iota
	TestFail            // title of a failing test's captured output
	TestResult          // PASS or FAIL of one test
	SectionEnd          // closes the current grouping
	Garbage             // recognized, never displayed
	Warning             // compiler warning (generic classifier)
	Error               // compiler error (generic classifier)
	Location            // file:line:col pointer (generic classifier)
)

var lineTypeNames = map[LineType]string{
	Normal:     "normal",
	TestFail:   "test_fail",
	TestResult: "test_result",
	SectionEnd: "section_end",
	Garbage:    "garbage",
	Warning:    "warning",
	Error:      "error",
	Location:   "location",
}

func (t LineType) String() string {
	if s, ok := lineTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("LineType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t LineType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Delegated reports whether the type belongs to the generic classifier.
func (t LineType) Delegated() bool {
	return t == Warning || t == Error || t == Location
}

// Analysis is the classification of one line. Values are comparable with ==.
type Analysis struct {
	Type LineType
	Key  string // set only for TestFail and TestResult

	pass       bool
	hasOutcome bool
}

// OfType returns an analysis carrying no key and no outcome.
func OfType(t LineType) Analysis {
	return Analysis{Type: t}
}

// TitleKey returns the analysis of a failing test's output title.
func TitleKey(key string) Analysis {
	return Analysis{Type: TestFail, Key: key}
}

// TestResultOf returns the analysis of a test result line.
func TestResultOf(key string, pass bool) Analysis {
	return Analysis{Type: TestResult, Key: key, pass: pass, hasOutcome: true}
}

// Outcome returns whether the test passed. ok is false unless Type is TestResult.
func (a Analysis) Outcome() (pass, ok bool) {
	return a.pass, a.hasOutcome
}

func (a Analysis) String() string {
	switch {
	case a.hasOutcome:
		return fmt.Sprintf("%s(%s, pass=%t)", a.Type, a.Key, a.pass)
	case a.Key != "":
		return fmt.Sprintf("%s(%s)", a.Type, a.Key)
	default:
		return a.Type.String()
	}
}

// MarshalJSON emits key and pass only when present.
func (a Analysis) MarshalJSON() ([]byte, error) {
	out := struct {
		Type LineType `json:"type"`
		Key  string   `json:"key,omitempty"`
		Pass *bool    `json:"pass,omitempty"`
	}{Type: a.Type, Key: a.Key}
	if a.hasOutcome {
		pass := a.pass
		out.Pass = &pass
	}
	return json.Marshal(out)
}

// Analyzer classifies a single line. Implementations must be total and safe
// for concurrent use.
type Analyzer interface {
	Analyze(line styled.Line) Analysis
}

// Func adapts a plain function to Analyzer.
type Func func(line styled.Line) Analysis

// Analyze calls f(line).
func (f Func) Analyze(line styled.Line) Analysis {
	return f(line)
}
