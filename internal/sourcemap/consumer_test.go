package sourcemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumer_Lookup(t *testing.T) {
	// "a b" was produced from "ab" by inserting a space.
	pm := New("ab\ncd", "a b\ncd", []int{0, Synthetic, 1, 2, 3, 4})

	consumer, err := pm.Consumer(EncodeOptions{File: "out.js", Source: "in.js"})
	require.NoError(t, err)
	assert.Equal(t, "out.js", consumer.File())

	tests := []struct {
		name   string
		line   int
		column int
		want   Location
	}{
		{"first character", 1, 0, Location{Source: "in.js", Line: 1, Column: 0}},
		{"shifted character", 1, 2, Location{Source: "in.js", Line: 1, Column: 1}},
		{"second line", 2, 1, Location{Source: "in.js", Line: 2, Column: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := consumer.Lookup(tt.line, tt.column)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseConsumer_Invalid(t *testing.T) {
	_, err := ParseConsumer("broken.map", []byte("{not json"))
	require.Error(t, err)
}
