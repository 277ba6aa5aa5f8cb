package ui

import (
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gubarz/mdscan/internal/config"
	"github.com/gubarz/mdscan/internal/index"
	"github.com/gubarz/mdscan/internal/output"
	"github.com/gubarz/mdscan/internal/parser"
)

const doc = "Run `make build` first.\n\n```sh\nmake test\nmake lint\n```\n\n    indented one\n\nThen `make install`.\n"

func testItems() []*item {
	idx := index.NewIndex()
	idx.Documents = append(idx.Documents, index.ParseText("notes/build.md", doc))
	return buildItems(idx)
}

func TestBuildItems(t *testing.T) {
	items := testItems()

	expected := []struct {
		kind parser.Kind
		lang string
		line int
		code string
	}{
		{parser.InlineCode, "", 1, "make build"},
		{parser.FencedCode, "sh", 4, "make test\nmake lint"},
		{parser.IndentedCode, "", 8, "indented one"},
		{parser.InlineCode, "", 10, "make install"},
	}
	if len(items) != len(expected) {
		t.Fatalf("expected %d items, got %d", len(expected), len(items))
	}
	for i, e := range expected {
		it := items[i]
		if it.kind != e.kind || it.lang != e.lang || it.line != e.line || it.code != e.code {
			t.Errorf("item %d: expected %+v, got kind=%s lang=%q line=%d code=%q", i, e, it.kind, it.lang, it.line, it.code)
		}
	}
	if loc := items[1].location(); loc != "notes/build.md:4" {
		t.Errorf("expected location notes/build.md:4, got %q", loc)
	}
}

func TestFilterItems(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected int
	}{
		{"empty query", "", 4},
		{"single word", "install", 1},
		{"all words must match", "make lint", 1},
		{"kind name", "inline", 2},
		{"language", "sh", 1},
		{"case insensitive", "MAKE", 3},
		{"no match", "cargo", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMainModel(testItems(), nil)
			m.textInput.SetValue(tt.query)
			m.filterItems()
			if len(m.filtered) != tt.expected {
				t.Errorf("expected %d matches, got %d", tt.expected, len(m.filtered))
			}
			if m.cursor != 0 {
				t.Errorf("expected cursor 0, got %d", m.cursor)
			}
		})
	}
}

func TestCursorMovement(t *testing.T) {
	m := newMainModel(testItems(), nil)

	keys := []struct {
		key      tea.KeyMsg
		expected int
	}{
		{tea.KeyMsg{Type: tea.KeyDown}, 1},
		{tea.KeyMsg{Type: tea.KeyDown}, 2},
		{tea.KeyMsg{Type: tea.KeyUp}, 1},
		{tea.KeyMsg{Type: tea.KeyEnd}, 3},
		{tea.KeyMsg{Type: tea.KeyDown}, 3},
		{tea.KeyMsg{Type: tea.KeyHome}, 0},
		{tea.KeyMsg{Type: tea.KeyUp}, 0},
	}
	for i, k := range keys {
		model, _ := m.Update(k.key)
		m = model.(mainModel)
		if m.cursor != k.expected {
			t.Errorf("step %d (%s): expected cursor %d, got %d", i, k.key, k.expected, m.cursor)
		}
	}
}

func TestPreviewFollowsCursor(t *testing.T) {
	m := newMainModel(testItems(), nil)
	if !strings.Contains(m.preview.View(), "make build") {
		t.Errorf("expected preview of first item, got %q", m.preview.View())
	}

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(mainModel)
	view := m.preview.View()
	if !strings.Contains(view, "make test") || !strings.Contains(view, "make lint") {
		t.Errorf("expected preview of fenced block, got %q", view)
	}
}

func TestEnterSelects(t *testing.T) {
	m := newMainModel(testItems(), nil)
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	model, cmd := model.(mainModel).Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(mainModel)

	if m.selected == nil || m.selected.code != "make test\nmake lint" {
		t.Fatalf("expected fenced block selected, got %+v", m.selected)
	}
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg")
	}
}

func TestEnterWithoutMatches(t *testing.T) {
	m := newMainModel(testItems(), nil)
	m.textInput.SetValue("cargo")
	m.filterItems()

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(mainModel)
	if m.selected != nil || m.quitting {
		t.Errorf("expected enter to be ignored with no matches")
	}
}

func TestEscQuits(t *testing.T) {
	m := newMainModel(testItems(), nil)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = model.(mainModel)

	if !m.quitting || m.selected != nil {
		t.Errorf("expected quit without selection")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg")
	}
	if m.View() != "" {
		t.Errorf("expected empty view after quitting")
	}
}

func TestTypingTriggersFilter(t *testing.T) {
	m := newMainModel(testItems(), nil)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")})
	m = model.(mainModel)

	if m.textInput.Value() != "z" {
		t.Errorf("expected query %q, got %q", "z", m.textInput.Value())
	}
	if cmd == nil {
		t.Errorf("expected debounce command")
	}

	model, _ = m.Update(filterMsg{})
	m = model.(mainModel)
	if len(m.filtered) != 0 {
		t.Errorf("expected no matches for %q, got %d", "z", len(m.filtered))
	}
}

func TestView(t *testing.T) {
	m := newMainModel(testItems(), nil)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = model.(mainModel)

	view := m.View()
	for _, want := range []string{"notes/build.md:1", "fenced sh", "make install", "4/4", "Enter select", "╭", "╰"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
	if lines := strings.Count(view, "\n") + 1; lines != 30 {
		t.Errorf("expected view to fill 30 lines, got %d", lines)
	}
}

func TestScrollWindow(t *testing.T) {
	tests := []struct {
		name          string
		cursor        int
		total         int
		height        int
		offset        int
		expectedStart int
		expectedEnd   int
	}{
		{"fits", 2, 5, 10, 0, 0, 5},
		{"cursor below", 12, 20, 5, 0, 8, 13},
		{"cursor above", 1, 20, 5, 6, 1, 6},
		{"offset past end", 19, 20, 5, 30, 15, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset := tt.offset
			start, end := scrollWindow(tt.cursor, tt.total, tt.height, &offset)
			if start != tt.expectedStart || end != tt.expectedEnd {
				t.Errorf("expected [%d, %d), got [%d, %d)", tt.expectedStart, tt.expectedEnd, start, end)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in       string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer line of code", 10, "a longe..."},
		{"tiny", 3, "tiny"},
		{"héllo wörld", 8, "héllo..."},
		{"日本語のコード", 9, "日本語..."},
	}
	for _, tt := range tests {
		got := truncateString(tt.in, tt.maxLen)
		if got != tt.expected {
			t.Errorf("truncateString(%q, %d): expected %q, got %q", tt.in, tt.maxLen, tt.expected, got)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncateString(%q, %d): split a rune in %q", tt.in, tt.maxLen, got)
		}
	}
}

func TestActionLabel(t *testing.T) {
	t.Cleanup(func() { config.SetOutput("") })
	out := output.New(nil).WithShell("/usr/bin/zsh")

	tests := []struct {
		mode     string
		expected string
	}{
		{"", "Enter print"},
		{"copy", "Enter copy"},
		{"exec", "Enter exec in zsh"},
		{"bogus", "Enter select"},
	}
	for _, tt := range tests {
		config.SetOutput(tt.mode)
		if got := actionLabel(out); got != tt.expected {
			t.Errorf("mode %q: expected %q, got %q", tt.mode, tt.expected, got)
		}
	}
}
