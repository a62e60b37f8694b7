package model

import "github.com/mouse-blink/prettymap/internal/sourcemap"

// Result is the outcome of one reformat call. Map is nil unless a map was requested.
type Result struct {
	Code string
	Map  *sourcemap.PositionMap
}

// HasMap reports whether the result carries a position map.
func (r Result) HasMap() bool {
	return r.Map != nil
}
