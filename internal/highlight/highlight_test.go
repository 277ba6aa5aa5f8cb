package highlight

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/mdscan/internal/index"
	"github.com/gubarz/mdscan/internal/parser"
)

func TestClassify(t *testing.T) {
	text := "Hi `abc` there\n\n    code\n"
	spans := Classify(text, parser.Parse(text))

	expected := []struct {
		text  string
		class Class
	}{
		{"Hi ", ClassPlain},
		{"`", ClassDelimiter},
		{"abc", ClassInline},
		{"`", ClassDelimiter},
		{" there\n\n", ClassPlain},
		{"    ", ClassDelimiter},
		{"code", ClassIndented},
		{"\n", ClassPlain},
	}
	if len(spans) != len(expected) {
		t.Fatalf("expected %d spans, got %d: %+v", len(expected), len(spans), spans)
	}
	for i, e := range expected {
		if got := spans[i].Text(text); got != e.text || spans[i].Class != e.class {
			t.Errorf("span %d: expected %q (%s), got %q (%s)", i, e.text, e.class, got, spans[i].Class)
		}
	}
}

func TestClassifyCoversText(t *testing.T) {
	inputs := []string{
		"",
		"no code",
		"> ```go\n> x := 1\n> ```\n",
		"a ``abc`\n\n    \n",
	}
	for _, text := range inputs {
		var b strings.Builder
		pos := 0
		for _, span := range Classify(text, parser.Parse(text)) {
			if span.Start != pos {
				t.Errorf("%q: gap or overlap at %d (span starts at %d)", text, pos, span.Start)
			}
			b.WriteString(span.Text(text))
			pos = span.End
		}
		if b.String() != text {
			t.Errorf("expected spans to rebuild %q, got %q", text, b.String())
		}
	}
}

func TestRenderWithoutColor(t *testing.T) {
	styles := NewStyles(lipgloss.NewRenderer(io.Discard))
	text := "Use `go test`\n\n```\nline one\nline two\n```\n"
	if got := styles.Render(text, parser.Parse(text)); got != text {
		t.Errorf("expected plain rendering to equal input, got %q", got)
	}
}

func TestRenderKeepsTabs(t *testing.T) {
	configured := NewStyles(lipgloss.NewRenderer(io.Discard))
	configured.LoadFromConfig()

	texts := []string{
		"```\n\tcode\n```\n",
		"a\tb `c\td`\n",
		"\n    x\ty\n",
	}
	for _, styles := range []*StyleManager{NewStyles(lipgloss.NewRenderer(io.Discard)), configured} {
		for _, text := range texts {
			if got := styles.Render(text, parser.Parse(text)); got != text {
				t.Errorf("expected %q unchanged, got %q", text, got)
			}
		}
	}
}

func TestStyleFor(t *testing.T) {
	styles := NewStyles(lipgloss.NewRenderer(io.Discard))
	tests := []struct {
		kind     parser.Kind
		expected lipgloss.Style
	}{
		{parser.InlineCode, styles.Inline},
		{parser.IndentedCode, styles.Indented},
		{parser.FencedCode, styles.Fenced},
	}
	for _, tt := range tests {
		got := styles.ForKind(tt.kind)
		if got.GetForeground() != tt.expected.GetForeground() {
			t.Errorf("%s: expected foreground %v, got %v", tt.kind, tt.expected.GetForeground(), got.GetForeground())
		}
	}
}

func TestParseANSIColor(t *testing.T) {
	tests := []struct {
		code     string
		expected lipgloss.Color
	}{
		{"32", lipgloss.Color("2")},
		{"90", lipgloss.Color("8")},
		{"212", lipgloss.Color("212")},
	}
	for _, tt := range tests {
		if got := parseANSIColor(tt.code); got != tt.expected {
			t.Errorf("parseANSIColor(%q): expected %q, got %q", tt.code, tt.expected, got)
		}
	}
}

func TestCodeHighlighter(t *testing.T) {
	h := NewCodeHighlighter("monokai")
	out, err := h.Code("go", "package main\n\nfunc main() {}\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, word := range []string{"package", "main", "func"} {
		if !strings.Contains(out, word) {
			t.Errorf("expected output to contain %q, got %q", word, out)
		}
	}
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("expected terminal escape sequences in %q", out)
	}
}

func TestLexerFallback(t *testing.T) {
	if l := Lexer("no-such-language", "just words"); l == nil {
		t.Fatalf("expected a fallback lexer")
	}
	if name := Lexer("python", "").Config().Name; name != "Python" {
		t.Errorf("expected Python lexer, got %q", name)
	}
}

func TestPositionOf(t *testing.T) {
	text := "ab\ncd\r\nef\rg"
	tests := []struct {
		offset   int
		expected Position
	}{
		{0, Position{1, 1}},
		{1, Position{1, 2}},
		{3, Position{2, 1}},
		{4, Position{2, 2}},
		{7, Position{3, 1}},
		{10, Position{4, 1}},
		{99, Position{4, 2}},
	}
	for _, tt := range tests {
		if got := PositionOf(text, tt.offset); got != tt.expected {
			t.Errorf("PositionOf(%d): expected %+v, got %+v", tt.offset, tt.expected, got)
		}
	}
}

func testIndex() *index.Index {
	idx := index.NewIndex()
	idx.Documents = append(idx.Documents, index.ParseText("doc.md", "Run `make`\n\n```sh\necho hi\necho bye\n```\n"))
	return idx
}

func TestFormatText(t *testing.T) {
	var buf bytes.Buffer
	if err := Format(&buf, testIndex(), "text", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "doc.md:1:5\tinline\t\"make\"\n" +
		"doc.md:4:1\tfenced\t\"echo hi\"\n" +
		"doc.md:5:1\tfenced\t\"echo bye\"\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatTextBlocks(t *testing.T) {
	var buf bytes.Buffer
	if err := Format(&buf, testIndex(), "text", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "doc.md:1:5\tinline\t\"make\"\n" +
		"doc.md:3:1\tfenced sh\t\"echo hi\\necho bye\"\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Format(&buf, testIndex(), "json", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var docs []struct {
		Path      string `json:"path"`
		Artifacts []struct {
			Kind string `json:"kind"`
			Text string `json:"text"`
		} `json:"artifacts"`
		Blocks []struct {
			Kind   string `json:"kind"`
			Info   string `json:"info"`
			Code   string `json:"code"`
			Closed bool   `json:"closed"`
		} `json:"blocks"`
	}
	if err := json.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if len(docs) != 1 || docs[0].Path != "doc.md" {
		t.Fatalf("unexpected documents %+v", docs)
	}
	if len(docs[0].Artifacts) != 1 || docs[0].Artifacts[0].Kind != "inline" || docs[0].Artifacts[0].Text != "make" {
		t.Errorf("unexpected artifacts %+v", docs[0].Artifacts)
	}
	if len(docs[0].Blocks) != 1 {
		t.Fatalf("expected one block, got %+v", docs[0].Blocks)
	}
	b := docs[0].Blocks[0]
	if b.Kind != "fenced" || b.Info != "sh" || b.Code != "echo hi\necho bye" || !b.Closed {
		t.Errorf("unexpected block %+v", b)
	}
}

func TestFormatUnknown(t *testing.T) {
	err := Format(io.Discard, testIndex(), "yaml", false)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}
