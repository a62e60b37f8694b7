package model

import (
	"strings"
	"unicode/utf8"
)

// EditKind tags an EditOperation.
type EditKind int

const (
	// EditEqual is text common to input and output.
	EditEqual EditKind = iota
	// EditInserted is text present only in the output.
	EditInserted
	// EditRemoved is text present only in the input.
	EditRemoved
)

// String implements fmt.Stringer.
func (k EditKind) String() string {
	switch k {
	case EditInserted:
		return "inserted"
	case EditRemoved:
		return "removed"
	default:
		return "equal"
	}
}

// EditOperation is one span of a character diff.
type EditOperation struct {
	Kind EditKind
	Text string
}

// Equal builds an EditEqual operation.
func Equal(text string) EditOperation { return EditOperation{Kind: EditEqual, Text: text} }

// Inserted builds an EditInserted operation.
func Inserted(text string) EditOperation { return EditOperation{Kind: EditInserted, Text: text} }

// Removed builds an EditRemoved operation.
func Removed(text string) EditOperation { return EditOperation{Kind: EditRemoved, Text: text} }

// Len returns the length of the operation text in characters.
func (op EditOperation) Len() int {
	return utf8.RuneCountInString(op.Text)
}

// EditScript is an ordered sequence of edit operations.
type EditScript []EditOperation

// Source rebuilds the diff input from Equal and Removed spans.
func (s EditScript) Source() string {
	var sb strings.Builder

	for _, op := range s {
		if op.Kind != EditInserted {
			sb.WriteString(op.Text)
		}
	}

	return sb.String()
}

// Target rebuilds the diff output from Equal and Inserted spans.
func (s EditScript) Target() string {
	var sb strings.Builder

	for _, op := range s {
		if op.Kind != EditRemoved {
			sb.WriteString(op.Text)
		}
	}

	return sb.String()
}

// Normalize drops empty operations and merges adjacent operations of the same kind.
func (s EditScript) Normalize() EditScript {
	out := make(EditScript, 0, len(s))

	for _, op := range s {
		if op.Text == "" {
			continue
		}

		if n := len(out); n > 0 && out[n-1].Kind == op.Kind {
			out[n-1].Text += op.Text
			continue
		}

		out = append(out, op)
	}

	return out
}
