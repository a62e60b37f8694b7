package adapter

import (
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"

	m "github.com/mouse-blink/prettymap/internal/model"
)

// Differ computes a character-level edit script between two texts.
// Concatenating Equal and Removed spans yields a; Equal and Inserted yields b.
type Differ interface {
	Diff(a, b string) m.EditScript
}

// MyersDiffer runs the Myers O(ND) difference algorithm over characters.
type MyersDiffer struct {
	timeout time.Duration
}

// NewMyersDiffer constructs a MyersDiffer. A zero timeout always computes the
// minimal script. A positive timeout caps the search: past the deadline the
// remaining region is reported as one removal and one insertion, which is
// still a valid script but maps that region coarsely.
func NewMyersDiffer(timeout time.Duration) *MyersDiffer {
	if timeout < 0 {
		timeout = 0
	}

	return &MyersDiffer{timeout: timeout}
}

// Diff returns a normalized edit script. A replacement is reported as the
// removal followed by the insertion.
func (d *MyersDiffer) Diff(a, b string) m.EditScript {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = d.timeout

	diffs := dmp.DiffMainRunes([]rune(a), []rune(b), false)

	script := make(m.EditScript, 0, len(diffs))

	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			script = append(script, m.Equal(diff.Text))
		case diffmatchpatch.DiffDelete:
			script = append(script, m.Removed(diff.Text))
		case diffmatchpatch.DiffInsert:
			script = append(script, m.Inserted(diff.Text))
		}
	}

	return script.Normalize()
}

// UnifiedDiff renders a line-based unified diff of a and b for human review.
// It returns an empty string when the texts are equal.
func UnifiedDiff(path m.Path, a, b string) (string, error) {
	if a == b {
		return "", nil
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: string(path),
		ToFile:   string(path) + " (formatted)",
		Context:  3,
	})
}
