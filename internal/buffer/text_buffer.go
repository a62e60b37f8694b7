// Package buffer provides the mutable staging text used to replay an edit
// script against an original source while tracking where every character
// came from.
package buffer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mouse-blink/prettymap/internal/sourcemap"
)

var (
	// ErrOutOfRange is returned when an edit addresses a position outside the source.
	ErrOutOfRange = errors.New("position out of range")
	// ErrFinalized is returned when a buffer is edited after Finalize.
	ErrFinalized = errors.New("buffer already finalized")
)

// TextBuffer stages insertions and removals against an immutable original.
// All positions are character offsets into the original text, so edits never
// shift each other.
type TextBuffer struct {
	original  []rune
	removed   []bool
	inserts   map[int]string
	finalized bool
}

// New seeds a buffer with source.
func New(source string) *TextBuffer {
	original := []rune(source)

	return &TextBuffer{
		original: original,
		removed:  make([]bool, len(original)),
		inserts:  make(map[int]string),
	}
}

// Len returns the length of the original text in characters.
func (b *TextBuffer) Len() int {
	return len(b.original)
}

// PrependLeft inserts text at index, before anything previously inserted
// at the same index.
func (b *TextBuffer) PrependLeft(index int, text string) error {
	if b.finalized {
		return ErrFinalized
	}

	if index < 0 || index > len(b.original) {
		return fmt.Errorf("prepend at %d (length %d): %w", index, len(b.original), ErrOutOfRange)
	}

	if text == "" {
		return nil
	}

	b.inserts[index] = text + b.inserts[index]

	return nil
}

// Remove drops the original characters in [start, end). Text inserted at a
// position strictly inside the range, or at end, is dropped with them; text
// inserted at start survives.
func (b *TextBuffer) Remove(start, end int) error {
	if b.finalized {
		return ErrFinalized
	}

	if start < 0 || end > len(b.original) || start > end {
		return fmt.Errorf("remove [%d, %d) (length %d): %w", start, end, len(b.original), ErrOutOfRange)
	}

	for i := start; i < end; i++ {
		b.removed[i] = true
		delete(b.inserts, i+1)
	}

	return nil
}

// String renders the current content without finalizing the buffer.
func (b *TextBuffer) String() string {
	text, _ := b.render()
	return text
}

// Finalize renders the content and its character-level position map. The
// buffer rejects further edits afterwards.
func (b *TextBuffer) Finalize() (string, *sourcemap.PositionMap) {
	b.finalized = true

	text, offsets := b.render()

	return text, sourcemap.New(string(b.original), text, offsets)
}

func (b *TextBuffer) render() (string, []int) {
	var sb strings.Builder

	offsets := make([]int, 0, len(b.original))

	for pos := 0; pos <= len(b.original); pos++ {
		if inserted, ok := b.inserts[pos]; ok {
			sb.WriteString(inserted)

			for range inserted {
				offsets = append(offsets, sourcemap.Synthetic)
			}
		}

		if pos < len(b.original) && !b.removed[pos] {
			sb.WriteRune(b.original[pos])
			offsets = append(offsets, pos)
		}
	}

	return sb.String(), offsets
}
