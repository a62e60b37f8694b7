// Package sourcemap holds character-level position maps between a source text
// and its reformatted counterpart, and encodes them as source map v3 documents.
package sourcemap

import "unicode/utf8"

// Synthetic marks a generated character that has no counterpart in the source.
const Synthetic = -1

// PositionMap maps every character offset of a generated text back to a
// character offset of the source it was derived from.
type PositionMap struct {
	source    string
	generated string
	offsets   []int
}

// New builds a PositionMap. offsets must hold one entry per character of
// generated, either a source offset or Synthetic.
func New(source, generated string, offsets []int) *PositionMap {
	return &PositionMap{
		source:    source,
		generated: generated,
		offsets:   offsets,
	}
}

// Identity maps each generated offset to the same source offset. Offsets past
// the end of source are Synthetic.
func Identity(source, generated string) *PositionMap {
	sourceLen := utf8.RuneCountInString(source)
	offsets := make([]int, utf8.RuneCountInString(generated))

	for i := range offsets {
		if i < sourceLen {
			offsets[i] = i
		} else {
			offsets[i] = Synthetic
		}
	}

	return New(source, generated, offsets)
}

// Source returns the text the map points back to.
func (m *PositionMap) Source() string {
	return m.source
}

// Generated returns the text the map describes.
func (m *PositionMap) Generated() string {
	return m.generated
}

// Len returns the number of generated characters covered by the map.
func (m *PositionMap) Len() int {
	return len(m.offsets)
}

// Offsets returns a copy of the offset table.
func (m *PositionMap) Offsets() []int {
	out := make([]int, len(m.offsets))
	copy(out, m.offsets)

	return out
}

// SourceOffset returns the source offset of the generated character at
// offset. ok is false for synthetic characters and out-of-range offsets.
func (m *PositionMap) SourceOffset(offset int) (int, bool) {
	if offset < 0 || offset >= len(m.offsets) {
		return 0, false
	}

	src := m.offsets[offset]
	if src == Synthetic {
		return 0, false
	}

	return src, true
}

// IsIdentity reports whether generated equals source and every offset maps to itself.
func (m *PositionMap) IsIdentity() bool {
	if m.source != m.generated || len(m.offsets) != utf8.RuneCountInString(m.source) {
		return false
	}

	for i, src := range m.offsets {
		if src != i {
			return false
		}
	}

	return true
}

// Synthetics counts generated characters without a source counterpart.
func (m *PositionMap) Synthetics() int {
	count := 0

	for _, src := range m.offsets {
		if src == Synthetic {
			count++
		}
	}

	return count
}
