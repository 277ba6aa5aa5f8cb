// Package highlight maps scanned artifacts onto presentation spans and renders them.
package highlight

import (
	"github.com/gubarz/mdscan/internal/parser"
)

// Class is the presentation class of a span
type Class uint8

const (
	ClassPlain Class = iota
	ClassDelimiter
	ClassInline
	ClassIndented
	ClassFenced
)

func (c Class) String() string {
	switch c {
	case ClassDelimiter:
		return "delimiter"
	case ClassInline:
		return "inline"
	case ClassIndented:
		return "indented"
	case ClassFenced:
		return "fenced"
	default:
		return "plain"
	}
}

// classOf returns the payload class for an artifact kind
func classOf(kind parser.Kind) Class {
	switch kind {
	case parser.InlineCode:
		return ClassInline
	case parser.IndentedCode:
		return ClassIndented
	case parser.FencedCode:
		return ClassFenced
	}
	return ClassPlain
}

// Span is a classified piece of the text
type Span struct {
	parser.Range
	Class Class
}

// Classify splits text into consecutive spans: plain text between artifacts,
// delimiters (outer minus inner) and payloads. Empty spans are omitted.
// Artifacts must be ordered and disjoint, as the parser produces them.
func Classify(text string, artifacts []parser.Artifact) []Span {
	spans := make([]Span, 0, len(artifacts)*3+1)
	add := func(start, end int, class Class) {
		if end > start {
			spans = append(spans, Span{Range: parser.Range{Start: start, End: end}, Class: class})
		}
	}

	pos := 0
	for _, a := range artifacts {
		if a.Outer.Start < pos {
			continue
		}
		add(pos, a.Outer.Start, ClassPlain)
		add(a.Outer.Start, a.Inner.Start, ClassDelimiter)
		add(a.Inner.Start, a.Inner.End, classOf(a.Kind))
		add(a.Inner.End, a.Outer.End, ClassDelimiter)
		pos = a.Outer.End
	}
	add(pos, len(text), ClassPlain)
	return spans
}
