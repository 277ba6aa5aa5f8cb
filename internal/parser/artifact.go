package parser

import (
	"fmt"
	"strings"
)

// Kind identifies what sort of code region an artifact is
type Kind uint8

const (
	InlineCode Kind = iota + 1
	IndentedCode
	FencedCode
)

var kindNames = map[Kind]string{
	InlineCode:   "inline",
	IndentedCode: "indented",
	FencedCode:   "fenced",
}

// Kinds lists every artifact kind in declaration order
func Kinds() []Kind {
	return []Kind{InlineCode, IndentedCode, FencedCode}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown artifact kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind converts a kind name ("inline", "indented", "fenced") to a Kind
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown artifact kind: %q (supported: inline, indented, fenced)", s)
}

// Range is a half-open byte interval [Start, End) in the source text
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered
func (r Range) Len() int {
	return r.End - r.Start
}

// Empty reports whether the range covers nothing
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Contains reports whether o lies entirely inside r
func (r Range) Contains(o Range) bool {
	return r.Start <= o.Start && o.End <= r.End
}

// Overlaps reports whether r and o share at least one byte
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && o.Start < r.End
}

// Text returns the slice of s covered by r
func (r Range) Text(s string) string {
	return s[r.Start:r.End]
}

// Artifact is one code region found in a document.
// Outer covers the delimiters (backticks, quote prefix, indentation) and Inner only the payload.
type Artifact struct {
	Kind  Kind  `json:"kind"`
	Outer Range `json:"outer"`
	Inner Range `json:"inner"`
}

// Text returns the payload of the artifact
func (a Artifact) Text(s string) string {
	return a.Inner.Text(s)
}

// Fence is the delimiter of a fenced block: its character and run length
type Fence struct {
	Char byte `json:"char"`
	Len  int  `json:"len"`
}

// String renders the fence the way it appears in the document
func (f Fence) String() string {
	if f.Len == 0 {
		return ""
	}
	return strings.Repeat(string(f.Char), f.Len)
}

// closes reports whether run (a run of the same character, length n) can close this fence
func (f Fence) closes(char byte, n int) bool {
	return char == f.Char && n >= minFence
}

// Block groups the line artifacts of one indented or fenced code block.
// Outer and Inner are contiguous, so in a quoted block Inner still holds the
// quote markers of every line after the first; Code is the payload view.
type Block struct {
	Kind  Kind       `json:"kind"`
	Outer Range      `json:"outer"`
	Inner Range      `json:"inner"`
	Depth int        `json:"depth"`
	Fence Fence      `json:"fence"`
	Info  string     `json:"info,omitempty"`
	Lines []Artifact `json:"lines"`

	// Closed is false for a fenced block that ran to the end of the text
	Closed bool `json:"closed"`
}

// Code returns the block payload: every line with its delimiters stripped, joined by "\n"
func (b Block) Code(s string) string {
	parts := make([]string, len(b.Lines))
	for i, line := range b.Lines {
		parts[i] = line.Text(s)
	}
	return strings.Join(parts, "\n")
}

// Language returns the first word of the fence info string
func (b Block) Language() string {
	if fields := strings.Fields(b.Info); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
