package domain

import (
	"github.com/mouse-blink/prettymap/internal/buffer"
	m "github.com/mouse-blink/prettymap/internal/model"
)

// Replay applies script to a buffer seeded with source. The cursor stays in
// source coordinates: an insertion is placed at the cursor and then
// subtracted back out, so the shared advance nets zero for it.
//
// The script is normalized first: two insertions at one cursor would
// otherwise come out reversed, since each prepends before the other.
func Replay(source string, script m.EditScript) (*buffer.TextBuffer, error) {
	buf := buffer.New(source)
	idx := 0

	for _, op := range script.Normalize() {
		n := op.Len()

		switch op.Kind {
		case m.EditInserted:
			if err := buf.PrependLeft(idx, op.Text); err != nil {
				return nil, err
			}

			idx -= n
		case m.EditRemoved:
			if err := buf.Remove(idx, idx+n); err != nil {
				return nil, err
			}
		}

		idx += n
	}

	return buf, nil
}
