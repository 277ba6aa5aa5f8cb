// Package compare cross-checks the scanner against goldmark's CommonMark parser.
package compare

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/gubarz/mdscan/internal/highlight"
	"github.com/gubarz/mdscan/internal/parser"
)

// Options are the goldmark options used for the reference parse
var Options = []goldmark.Option{
	goldmark.WithExtensions(
		extension.GFM,
		extension.DefinitionList,
		extension.Footnote,
	),
}

// Entry is one code payload found by either parser
type Entry struct {
	Kind parser.Kind `json:"kind"`
	Line int         `json:"line"`
	Text string      `json:"text"`
}

// Report is the outcome of a cross-check
type Report struct {
	Matched       []Entry `json:"matched"`
	OnlyScanner   []Entry `json:"only_scanner"`
	OnlyReference []Entry `json:"only_reference"`
}

// OK reports whether both parsers found the same payloads
func (r Report) OK() bool {
	return len(r.OnlyScanner) == 0 && len(r.OnlyReference) == 0
}

// Compare scans text with both parsers and pairs up their payloads.
// Inline spans are compared one by one, indented and fenced code block by block.
// Payloads are matched on kind and whitespace-normalised text, in document order.
func Compare(text string) Report {
	return diff(Scanner(text), Reference(text))
}

// Scanner lists the payloads the scanner finds
func Scanner(text string) []Entry {
	res := parser.ParseAll(text)

	var entries []Entry
	for _, a := range res.Artifacts {
		if a.Kind != parser.InlineCode {
			continue
		}
		entries = append(entries, Entry{
			Kind: a.Kind,
			Line: highlight.PositionOf(text, a.Inner.Start).Line,
			Text: a.Text(text),
		})
	}
	for _, b := range res.Blocks {
		line := 0
		if len(b.Lines) > 0 {
			line = highlight.PositionOf(text, b.Lines[0].Outer.Start).Line
		}
		entries = append(entries, Entry{Kind: b.Kind, Line: line, Text: b.Code(text)})
	}
	return entries
}

// Reference lists the payloads goldmark finds
func Reference(src string) []Entry {
	source := []byte(src)
	md := goldmark.New(Options...)
	doc := md.Parser().Parse(text.NewReader(source))

	var inline, blocks []Entry
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.CodeSpan:
			inline = append(inline, codeSpanEntry(n, source))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			blocks = append(blocks, blockEntry(parser.FencedCode, n, source))
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			blocks = append(blocks, blockEntry(parser.IndentedCode, n, source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return append(inline, blocks...)
}

func codeSpanEntry(n *ast.CodeSpan, source []byte) Entry {
	e := Entry{Kind: parser.InlineCode}
	var buf strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			if e.Line == 0 {
				e.Line = lineOf(source, t.Segment.Start)
			}
			buf.Write(t.Segment.Value(source))
		}
	}
	e.Text = buf.String()
	return e
}

func blockEntry(kind parser.Kind, n ast.Node, source []byte) Entry {
	e := Entry{Kind: kind}
	lines := n.Lines()
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if i == 0 {
			e.Line = lineOf(source, seg.Start)
		}
		parts = append(parts, strings.TrimRight(string(seg.Value(source)), "\r\n"))
	}
	e.Text = strings.Join(parts, "\n")
	return e
}

func lineOf(source []byte, offset int) int {
	return highlight.PositionOf(string(source), offset).Line
}

// normalize collapses whitespace so line joins and CommonMark's
// one-space stripping in code spans do not count as differences
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type key struct {
	kind parser.Kind
	text string
}

func diff(scanned, reference []Entry) Report {
	var r Report

	pool := make(map[key][]int)
	for i, e := range reference {
		k := key{e.Kind, normalize(e.Text)}
		pool[k] = append(pool[k], i)
	}

	used := make([]bool, len(reference))
	for _, e := range scanned {
		k := key{e.Kind, normalize(e.Text)}
		if idx := pool[k]; len(idx) > 0 {
			used[idx[0]] = true
			pool[k] = idx[1:]
			r.Matched = append(r.Matched, e)
			continue
		}
		r.OnlyScanner = append(r.OnlyScanner, e)
	}
	for i, e := range reference {
		if !used[i] {
			r.OnlyReference = append(r.OnlyReference, e)
		}
	}
	return r
}
