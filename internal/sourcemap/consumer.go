package sourcemap

import (
	"fmt"

	gosourcemap "github.com/go-sourcemap/sourcemap"
)

// Location is a position in an original source file. Line is 1-based and
// Column is 0-based, as in browser stack traces.
type Location struct {
	Source string
	Line   int
	Column int
}

// Consumer answers generated-to-original lookups on an encoded source map.
type Consumer struct {
	consumer *gosourcemap.Consumer
}

// ParseConsumer parses an encoded v3 document. mapURL is used to resolve
// relative source paths and may be empty.
func ParseConsumer(mapURL string, data []byte) (*Consumer, error) {
	c, err := gosourcemap.Parse(mapURL, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source map: %w", err)
	}

	return &Consumer{consumer: c}, nil
}

// Consumer encodes m and parses it back for lookups.
func (m *PositionMap) Consumer(opts EncodeOptions) (*Consumer, error) {
	data, err := m.EncodeV3(opts).Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to encode source map: %w", err)
	}

	return ParseConsumer("", data)
}

// File returns the generated file name recorded in the map.
func (c *Consumer) File() string {
	return c.consumer.File()
}

// Lookup resolves a 1-based generated line and 0-based column.
func (c *Consumer) Lookup(line, column int) (Location, bool) {
	source, _, srcLine, srcColumn, ok := c.consumer.Source(line, column)
	if !ok {
		return Location{}, false
	}

	return Location{Source: source, Line: srcLine, Column: srcColumn}, true
}
