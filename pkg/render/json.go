package render

import (
	"encoding/json"

	"github.com/dkoosis/lineclass/pkg/analysis"
	"github.com/dkoosis/lineclass/pkg/report"
	"github.com/dkoosis/lineclass/pkg/styled"
)

// JSON renders a report as structured JSON for automation.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

type jsonOutput struct {
	Version     string               `json:"version"`
	Status      string               `json:"status"`
	Passed      int                  `json:"passed"`
	Failed      int                  `json:"failed"`
	Warnings    int                  `json:"warnings"`
	Errors      int                  `json:"errors"`
	Lines       int                  `json:"lines"`
	Tests       []report.TestOutcome `json:"tests"`
	Failures    []jsonBlock          `json:"failures"`
	Diagnostics []jsonBlock          `json:"diagnostics"`
}

type jsonBlock struct {
	Key    string            `json:"key,omitempty"`
	Type   analysis.LineType `json:"type,omitempty"`
	Output []string          `json:"output"`
}

// Render formats the report as JSON.
func (j *JSON) Render(r report.Report) string {
	out := jsonOutput{
		Version:     "1.0",
		Status:      r.Status(),
		Passed:      r.Passed(),
		Failed:      r.Failed(),
		Warnings:    r.Warnings(),
		Errors:      r.Errors(),
		Lines:       r.Lines,
		Tests:       r.Tests,
		Failures:    make([]jsonBlock, 0, len(r.Failures)),
		Diagnostics: make([]jsonBlock, 0, len(r.Diagnostics)),
	}
	if out.Tests == nil {
		out.Tests = []report.TestOutcome{}
	}
	for _, f := range r.Failures {
		out.Failures = append(out.Failures, jsonBlock{Key: f.Key, Output: plainLines(f.Lines)})
	}
	for _, d := range r.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, jsonBlock{Type: d.Type, Output: plainLines(d.Lines)})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return string(data) + "\n"
}

func plainLines(lines []styled.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Plain()
	}
	return out
}
