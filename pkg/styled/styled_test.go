package styled

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLine_Unstyled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		line   Line
		want   string
		wantOK bool
	}{
		{name: "empty line", line: Line{}, want: "", wantOK: true},
		{name: "plain runs", line: NewLine(NewRun("", "running "), NewRun("", "3 tests")), want: "running 3 tests", wantOK: true},
		{name: "one styled run", line: NewLine(NewRun("", "a"), NewRun(TagBold, "b")), wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tc.line.Unstyled()
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLine_RunOutOfRange(t *testing.T) {
	t.Parallel()

	l := NewLine(NewRun(TagPass, "PASS"))
	r, ok := l.Run(0)
	require.True(t, ok)
	assert.Equal(t, "PASS", r.Text)

	_, ok = l.Run(1)
	assert.False(t, ok)
	_, ok = l.Run(-1)
	assert.False(t, ok)
}

func TestNewLine_CopiesRuns(t *testing.T) {
	t.Parallel()

	runs := []Run{NewRun("", "a")}
	l := NewLine(runs...)
	runs[0].Text = "changed"
	assert.Equal(t, "a", l.Plain())
}

func TestCursor_SkipAndMore(t *testing.T) {
	t.Parallel()

	c := NewLine(NewRun("", "a"), NewRun("", "b"), NewRun("", "c")).Cursor()
	c.Skip(2)
	require.True(t, c.More())
	r, ok := c.Next()
	require.True(t, ok)
	assert.Equal(t, "c", r.Text)
	assert.False(t, c.More())

	c.Skip(5)
	_, ok = c.Next()
	assert.False(t, ok)
}

func TestLine_StringRoundTripsThroughParse(t *testing.T) {
	t.Parallel()

	l := NewLine(
		NewRun(TagError, "error"),
		NewRun("", ": test run failed"),
	)
	assert.Equal(t, l, Parse(l.String()))
}

func TestParse_SplitsRunsOnStyleChange(t *testing.T) {
	t.Parallel()

	raw := "\x1b[32;1m        PASS\x1b[0m [   0.003s] \x1b[35;1mbacon\x1b[0m \x1b[36mtests\x1b[0m\x1b[36m::\x1b[0m\x1b[34;1mleaf\x1b[0m"
	got := Parse(raw)

	want := NewLine(
		NewRun(TagPass, "        PASS"),
		NewRun("", " [   0.003s] "),
		NewRun(TagTitle, "bacon"),
		NewRun("", " "),
		NewRun("\x1b[36m", "tests"),
		NewRun("\x1b[36m", "::"),
		NewRun(TagLocation, "leaf"),
	)
	assert.Equal(t, want, got)
}

func TestParse_DropsNonSGRSequences(t *testing.T) {
	t.Parallel()

	got := Parse("\x1b[2Kplain\x1b[1A text\r")
	text, ok := got.Unstyled()
	require.True(t, ok)
	assert.Equal(t, "plain text", text)
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Parse("").Len())
	assert.Equal(t, 0, Parse("\x1b[0m").Len())
}

func TestScanner_ReadsLines(t *testing.T) {
	t.Parallel()

	input := "running 2 tests\n\x1b[31;1mFAIL\x1b[0m x\n"
	sc := NewScanner(strings.NewReader(input), 0)

	var lines []Line
	for sc.Scan() {
		lines = append(lines, sc.Line())
	}
	require.NoError(t, sc.Err())
	require.Len(t, lines, 2)
	assert.Equal(t, "running 2 tests", lines[0].Plain())
	assert.Equal(t, TagError, lines[1].Runs[0].Tag)
}

func TestScanner_LineTooLong(t *testing.T) {
	t.Parallel()

	sc := NewScanner(strings.NewReader(strings.Repeat("x", 200)+"\n"), 100)
	for sc.Scan() {
	}
	assert.Error(t, sc.Err())
}
