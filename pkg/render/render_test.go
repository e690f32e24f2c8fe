package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/lineclass/pkg/analysis"
	"github.com/dkoosis/lineclass/pkg/report"
	"github.com/dkoosis/lineclass/pkg/styled"
)

func plain(text string) styled.Line {
	return styled.NewLine(styled.NewRun("", text))
}

func sampleReport() report.Report {
	b := report.NewBuilder()
	b.Add(plain(""), analysis.TestResultOf("mod::ok", true))
	b.Add(plain(""), analysis.TestResultOf("mod::first", false))
	b.Add(plain(""), analysis.TitleKey("mod::first"))
	b.Add(plain("first output"), analysis.OfType(analysis.Normal))
	b.Add(plain(""), analysis.TestResultOf("mod::second", false))
	b.Add(plain(""), analysis.TitleKey("mod::second"))
	b.Add(plain("second output"), analysis.OfType(analysis.Normal))
	b.Add(plain("warning: unused variable"), analysis.OfType(analysis.Warning))
	b.Add(plain("  --> src/lib.rs:3:9"), analysis.OfType(analysis.Location))
	return b.Report()
}

func TestTerminal_RendersFailuresAndStatus(t *testing.T) {
	t.Parallel()

	out := NewTerminal(MonoTheme(), Options{Label: "nextest"}).Render(sampleReport())

	assert.Contains(t, out, "nextest")
	assert.Contains(t, out, "x mod::first")
	assert.Contains(t, out, "+ 1 passed")
	assert.Contains(t, out, "Failures")
	assert.Contains(t, out, "first output")
	assert.Contains(t, out, "! Warning warning: unused variable")
	assert.Contains(t, out, "src/lib.rs:3:9")
	assert.Contains(t, out, "FAIL 2/3 tests failed, 1 warnings, 0 errors")
}

func TestTerminal_SummaryHidesOutput(t *testing.T) {
	t.Parallel()

	out := NewTerminal(MonoTheme(), Options{Summary: true}).Render(sampleReport())

	assert.Contains(t, out, "mod::first")
	assert.NotContains(t, out, "first output")
	assert.NotContains(t, out, "Diagnostics")
}

func TestTerminal_Reverse(t *testing.T) {
	t.Parallel()

	out := NewTerminal(MonoTheme(), Options{Reverse: true}).Render(sampleReport())
	assert.Less(t, strings.Index(out, "second output"), strings.Index(out, "first output"))

	out = NewTerminal(MonoTheme(), Options{}).Render(sampleReport())
	assert.Less(t, strings.Index(out, "first output"), strings.Index(out, "second output"))
}

func TestTerminal_WrapVersusTruncate(t *testing.T) {
	t.Parallel()

	b := report.NewBuilder()
	b.Add(plain(""), analysis.TitleKey("k"))
	b.Add(plain(strings.Repeat("word ", 20)), analysis.OfType(analysis.Normal))
	r := b.Report()

	truncated := NewTerminal(MonoTheme(), Options{Width: 30}).Render(r)
	assert.Contains(t, truncated, "…")

	wrapped := NewTerminal(MonoTheme(), Options{Width: 30, Wrap: true}).Render(r)
	assert.NotContains(t, wrapped, "…")
	assert.Greater(t, strings.Count(wrapped, "\n"), strings.Count(truncated, "\n"))
}

func TestTerminal_EmptyReport(t *testing.T) {
	t.Parallel()

	out := NewTerminal(MonoTheme(), Options{}).Render(report.NewBuilder().Report())
	assert.Contains(t, out, "no test results")
}

func TestLLM_Render(t *testing.T) {
	t.Parallel()

	out := NewLLM(Options{Label: "nextest"}).Render(sampleReport())

	assert.True(t, strings.HasPrefix(out, "FAIL nextest tests=3 passed=1 failed=2 warnings=1 errors=0\n"))
	assert.Contains(t, out, "FAIL mod::first\n")
	assert.Contains(t, out, "## mod::second\nsecond output\n")
	assert.Contains(t, out, "WARNING warning: unused variable\n")
	assert.NotContains(t, out, "\x1b[")
}

func TestLLM_Summary(t *testing.T) {
	t.Parallel()

	out := NewLLM(Options{Summary: true}).Render(sampleReport())
	assert.NotContains(t, out, "## ")
}

func TestJSON_Render(t *testing.T) {
	t.Parallel()

	out := NewJSON().Render(sampleReport())

	var decoded struct {
		Status      string `json:"status"`
		Failed      int    `json:"failed"`
		Failures    []struct {
			Key    string   `json:"key"`
			Output []string `json:"output"`
		} `json:"failures"`
		Diagnostics []struct {
			Type string `json:"type"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "fail", decoded.Status)
	assert.Equal(t, 2, decoded.Failed)
	require.Len(t, decoded.Failures, 2)
	assert.Equal(t, []string{"first output"}, decoded.Failures[0].Output)
	require.Len(t, decoded.Diagnostics, 1)
	assert.Equal(t, "warning", decoded.Diagnostics[0].Type)
}

func TestNew_SelectsRenderer(t *testing.T) {
	t.Parallel()

	assert.IsType(t, &JSON{}, New("json", MonoTheme(), Options{}))
	assert.IsType(t, &Terminal{}, New("terminal", MonoTheme(), Options{}))
	assert.IsType(t, &LLM{}, New("llm", MonoTheme(), Options{}))
	assert.IsType(t, &LLM{}, New("bogus", MonoTheme(), Options{}))
}

func TestThemeByName(t *testing.T) {
	t.Parallel()

	for _, name := range ThemeNames {
		assert.Equal(t, name, ThemeByName(name).Name)
	}
	assert.Equal(t, "default", ThemeByName("unknown").Name)
}

func TestThemes_Palettes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		theme    Theme
		keep     bool
		colored  bool
		passIcon string
	}{
		{theme: DefaultTheme(), keep: true, colored: true, passIcon: "✓"},
		{theme: OrcaTheme(), keep: false, colored: true, passIcon: "✓"},
		{theme: MonoTheme(), keep: false, colored: false, passIcon: "+"},
	}
	for _, tt := range tests {
		t.Run(tt.theme.Name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.keep, tt.theme.KeepToolColors)
			assert.Equal(t, tt.passIcon, tt.theme.Icons.Pass)
			_, noColor := tt.theme.Fail.GetForeground().(lipgloss.NoColor)
			assert.Equal(t, tt.colored, !noColor)
			assert.NotEqual(t, tt.theme.Icons.Pass, tt.theme.Icons.Fail)
		})
	}
}
