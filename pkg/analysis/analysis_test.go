package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/lineclass/pkg/styled"
)

func TestConstructors_KeyAndOutcomeInvariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		a           Analysis
		wantKey     bool
		wantOutcome bool
	}{
		{name: "of type", a: OfType(SectionEnd)},
		{name: "title", a: TitleKey("mod::leaf"), wantKey: true},
		{name: "result", a: TestResultOf("mod::leaf", false), wantKey: true, wantOutcome: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.wantKey, tc.a.Key != "")
			_, ok := tc.a.Outcome()
			assert.Equal(t, tc.wantOutcome, ok)
		})
	}
}

func TestAnalysis_Comparable(t *testing.T) {
	t.Parallel()

	assert.True(t, TestResultOf("k", true) == TestResultOf("k", true))
	assert.False(t, TestResultOf("k", true) == TestResultOf("k", false))
}

func TestAnalysis_MarshalJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(TestResultOf("t::c", true))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"test_result","key":"t::c","pass":true}`, string(b))

	b, err = json.Marshal(OfType(Garbage))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"garbage"}`, string(b))
}

func TestLineType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "test_fail", TestFail.String())
	assert.Equal(t, "LineType(99)", LineType(99).String())
	assert.True(t, Location.Delegated())
	assert.False(t, Garbage.Delegated())
}

func TestRegistry_CaseInsensitiveAliases(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	a := Func(func(styled.Line) Analysis { return OfType(Garbage) })
	r.Register(a, "nextest", "Cargo")

	require.NotNil(t, r.Get("NEXTEST"))
	require.NotNil(t, r.Get("cargo"))
	assert.Nil(t, r.Get("pytest"))
	assert.Equal(t, []string{"cargo", "nextest"}, r.Names())
	assert.Equal(t, OfType(Garbage), r.Get("cargo").Analyze(styled.Line{}))
}
