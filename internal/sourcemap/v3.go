package sourcemap

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/segmentio/encoding/json"
)

const dataURLPrefix = "data:application/json;charset=utf-8;base64,"

// V3 is a source map revision 3 document.
type V3 struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Marshal encodes the document as JSON.
func (v *V3) Marshal() ([]byte, error) {
	return json.Marshal(v)
}

// String returns the JSON form, or an empty string if encoding fails.
func (v *V3) String() string {
	data, err := v.Marshal()
	if err != nil {
		return ""
	}

	return string(data)
}

// ToURL returns the document as a base64 data URL suitable for an inline
// sourceMappingURL comment.
func (v *V3) ToURL() (string, error) {
	data, err := v.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to encode source map: %w", err)
	}

	return dataURLPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// EncodeOptions names the files a V3 document refers to.
type EncodeOptions struct {
	File           string
	Source         string
	IncludeContent bool
}

// EncodeV3 renders the map with one segment per mapped character. Newlines
// carry no segment. Columns are counted in UTF-16 code units.
func (m *PositionMap) EncodeV3(opts EncodeOptions) *V3 {
	doc := &V3{
		Version:  3,
		File:     opts.File,
		Sources:  []string{opts.Source},
		Names:    []string{},
		Mappings: m.mappings(),
	}

	if opts.IncludeContent {
		doc.SourcesContent = []string{m.source}
	}

	return doc
}

// MarshalJSON encodes the map as an anonymous v3 document with embedded source.
func (m *PositionMap) MarshalJSON() ([]byte, error) {
	return m.EncodeV3(EncodeOptions{IncludeContent: true}).Marshal()
}

type position struct {
	line   int
	column int
}

// positions returns the zero-based line and UTF-16 column of every character
// of text, plus one entry for the end of text.
func positions(text string) []position {
	out := make([]position, 0, len(text)+1)
	line, column := 0, 0

	for _, r := range text {
		out = append(out, position{line: line, column: column})

		if r == '\n' {
			line++
			column = 0

			continue
		}

		column += utf16Len(r)
	}

	return append(out, position{line: line, column: column})
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}

	return 1
}

func (m *PositionMap) mappings() string {
	sourcePositions := positions(m.source)

	var sb strings.Builder

	prevSourceLine, prevSourceColumn := 0, 0
	generatedColumn, prevGeneratedColumn := 0, 0
	firstOnLine := true
	i := 0

	for _, r := range m.generated {
		if r == '\n' {
			sb.WriteByte(';')

			generatedColumn, prevGeneratedColumn = 0, 0
			firstOnLine = true
			i++

			continue
		}

		if i < len(m.offsets) && m.offsets[i] != Synthetic && m.offsets[i] < len(sourcePositions) {
			pos := sourcePositions[m.offsets[i]]

			if !firstOnLine {
				sb.WriteByte(',')
			}

			writeVLQ(&sb, generatedColumn-prevGeneratedColumn)
			writeVLQ(&sb, 0)
			writeVLQ(&sb, pos.line-prevSourceLine)
			writeVLQ(&sb, pos.column-prevSourceColumn)

			prevGeneratedColumn = generatedColumn
			prevSourceLine, prevSourceColumn = pos.line, pos.column
			firstOnLine = false
		}

		generatedColumn += utf16Len(r)
		i++
	}

	return sb.String()
}
