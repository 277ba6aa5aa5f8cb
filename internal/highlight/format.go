package highlight

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/gubarz/mdscan/internal/index"
	"github.com/gubarz/mdscan/internal/parser"
)

// ErrUnknownFormat is returned for a listing format other than text or json
var ErrUnknownFormat = errors.New("unknown format")

// Position is a 1-based line and column (in bytes)
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// PositionOf converts a byte offset in text into a line and column.
// "\r\n" and a lone "\r" count as one line break, like in the parser.
func PositionOf(text string, offset int) Position {
	offset = min(max(offset, 0), len(text))
	pos := Position{Line: 1, Column: 1}
	for i := 0; i < offset; i++ {
		switch text[i] {
		case '\n':
			pos.Line++
			pos.Column = 1
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				continue
			}
			pos.Line++
			pos.Column = 1
		default:
			pos.Column++
		}
	}
	return pos
}

type artifactJSON struct {
	Kind  parser.Kind  `json:"kind"`
	Pos   Position     `json:"position"`
	Outer parser.Range `json:"outer"`
	Inner parser.Range `json:"inner"`
	Text  string       `json:"text"`
}

type blockJSON struct {
	Kind   parser.Kind  `json:"kind"`
	Pos    Position     `json:"position"`
	Outer  parser.Range `json:"outer"`
	Inner  parser.Range `json:"inner"`
	Depth  int          `json:"depth"`
	Info   string       `json:"info,omitempty"`
	Closed bool         `json:"closed"`
	Code   string       `json:"code"`
}

type documentJSON struct {
	Path      string             `json:"path"`
	Meta      *index.FrontMatter `json:"meta,omitempty"`
	Artifacts []artifactJSON     `json:"artifacts,omitempty"`
	Blocks    []blockJSON        `json:"blocks,omitempty"`
}

// Format writes the index listing to w as "text" or "json".
// With blocks set, indented and fenced lines are grouped into whole blocks
// and inline spans are listed on their own.
func Format(w io.Writer, idx *index.Index, format string, blocks bool) error {
	switch strings.ToLower(format) {
	case "", "text":
		return formatText(w, idx, blocks)
	case "json":
		return formatJSON(w, idx, blocks)
	default:
		return fmt.Errorf("%w: %s (supported: text, json)", ErrUnknownFormat, format)
	}
}

// row is one line of the text listing
type row struct {
	offset int
	label  string
	text   string
}

func formatText(w io.Writer, idx *index.Index, blocks bool) error {
	for _, doc := range idx.Documents {
		rows := make([]row, 0, len(doc.Artifacts))
		for _, a := range doc.Artifacts {
			if blocks && a.Kind != parser.InlineCode {
				continue
			}
			rows = append(rows, row{offset: a.Outer.Start, label: a.Kind.String(), text: a.Text(doc.Text)})
		}
		if blocks {
			for _, b := range doc.Blocks {
				label := b.Kind.String()
				if b.Info != "" {
					label += " " + b.Info
				}
				rows = append(rows, row{offset: b.Outer.Start, label: label, text: b.Code(doc.Text)})
			}
			sort.SliceStable(rows, func(i, j int) bool { return rows[i].offset < rows[j].offset })
		}

		for _, r := range rows {
			p := PositionOf(doc.Text, r.offset)
			if _, err := fmt.Fprintf(w, "%s:%d:%d\t%s\t%s\n",
				doc.Path, p.Line, p.Column, r.label, strconv.Quote(r.text)); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatJSON(w io.Writer, idx *index.Index, blocks bool) error {
	docs := make([]documentJSON, 0, len(idx.Documents))
	for _, doc := range idx.Documents {
		d := documentJSON{Path: doc.Path}
		if doc.Meta.Title != "" || len(doc.Meta.Tags) > 0 {
			meta := doc.Meta
			d.Meta = &meta
		}
		for _, a := range doc.Artifacts {
			if blocks && a.Kind != parser.InlineCode {
				continue
			}
			d.Artifacts = append(d.Artifacts, artifactJSON{
				Kind:  a.Kind,
				Pos:   PositionOf(doc.Text, a.Outer.Start),
				Outer: a.Outer,
				Inner: a.Inner,
				Text:  a.Text(doc.Text),
			})
		}
		if blocks {
			for _, b := range doc.Blocks {
				d.Blocks = append(d.Blocks, blockJSON{
					Kind:   b.Kind,
					Pos:    PositionOf(doc.Text, b.Outer.Start),
					Outer:  b.Outer,
					Inner:  b.Inner,
					Depth:  b.Depth,
					Info:   b.Info,
					Closed: b.Closed,
					Code:   b.Code(doc.Text),
				})
			}
		}
		docs = append(docs, d)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}
