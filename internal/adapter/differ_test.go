package adapter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/prettymap/internal/model"
)

func TestMyersDiffer_Diff(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want m.EditScript
	}{
		{"identical", "ab", "ab", m.EditScript{m.Equal("ab")}},
		{"both empty", "", "", m.EditScript{}},
		{"insert", "ab", "a b", m.EditScript{m.Equal("a"), m.Inserted(" "), m.Equal("b")}},
		{"remove", "a b", "ab", m.EditScript{m.Equal("a"), m.Removed(" "), m.Equal("b")}},
		{"replace is removal then insertion", "abc", "axc", m.EditScript{m.Equal("a"), m.Removed("b"), m.Inserted("x"), m.Equal("c")}},
		{"from empty", "", "xy", m.EditScript{m.Inserted("xy")}},
		{"to empty", "xy", "", m.EditScript{m.Removed("xy")}},
		{"multibyte", "é😀", "é 😀", m.EditScript{m.Equal("é"), m.Inserted(" "), m.Equal("😀")}},
	}

	differ := NewMyersDiffer(0)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, differ.Diff(tt.a, tt.b))
		})
	}
}

func assertValidScript(t *testing.T, a, b string, script m.EditScript) {
	t.Helper()

	assert.Equal(t, a, script.Source(), "source of %q", a)
	assert.Equal(t, b, script.Target(), "target of %q", b)

	for i := 1; i < len(script); i++ {
		assert.NotEqual(t, script[i-1].Kind, script[i].Kind, "adjacent operations must differ in kind")
	}
}

func TestMyersDiffer_Reconstructs(t *testing.T) {
	pairs := []struct {
		a string
		b string
	}{
		{`var foo=0;var test="hello world";`, "var foo = 0;\nvar test = \"hello world\";\n"},
		{"function f(a,b){return a+b}", "function f(a, b) {\n  return a + b;\n}\n"},
		{"const s='é😀';", "const s = \"é😀\";\n"},
		{"x", "y"},
		{"aaaa bbbb", "bbbb aaaa"},
	}

	differ := NewMyersDiffer(0)

	for _, pair := range pairs {
		assertValidScript(t, pair.a, pair.b, differ.Diff(pair.a, pair.b))
	}
}

func TestMyersDiffer_LargeBundle(t *testing.T) {
	if testing.Short() {
		t.Skip("large diff skipped in short mode")
	}

	const repeats = 3000

	bundle := strings.Repeat(`var foo=0;var test="hello world";`, repeats)
	formatted := strings.Repeat("var foo = 0;\nvar test = \"hello world\";\n", repeats)
	require.Greater(t, len(bundle), 95_000)

	start := time.Now()
	script := NewMyersDiffer(0).Diff(bundle, formatted)
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 15*time.Second, "diffing a %d byte bundle took %s", len(bundle), elapsed)
	assertValidScript(t, bundle, formatted, script)

	// Only whitespace was added, so a minimal script never removes anything.
	for _, op := range script {
		assert.NotEqual(t, m.EditRemoved, op.Kind)
	}
}

func TestMyersDiffer_TimeoutStillValid(t *testing.T) {
	bundle := strings.Repeat("a=1;b=[2,3];", 400)
	formatted := strings.Repeat("a = 1;\nb = [2, 3];\n", 400)

	script := NewMyersDiffer(time.Nanosecond).Diff(bundle, formatted)

	assertValidScript(t, bundle, formatted, script)
}

func TestNewMyersDiffer_NegativeTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), NewMyersDiffer(-time.Second).timeout)
}

func TestUnifiedDiff(t *testing.T) {
	diff, err := UnifiedDiff("dist/app.js", "var a=1;\n", "var a = 1;\n")
	require.NoError(t, err)

	assert.Contains(t, diff, "--- dist/app.js\n")
	assert.Contains(t, diff, "+++ dist/app.js (formatted)\n")
	assert.Contains(t, diff, "-var a=1;\n")
	assert.Contains(t, diff, "+var a = 1;\n")

	diff, err = UnifiedDiff("dist/app.js", "same\n", "same\n")
	require.NoError(t, err)
	assert.Empty(t, diff)
}
