package parser

import "testing"

func TestCursorPeek(t *testing.T) {
	c := NewCursor("ab\ncd")
	tests := []struct {
		offset   int
		expected rune
	}{
		{0, 'a'},
		{1, 'b'},
		{2, '\n'},
		{4, 'd'},
		{5, EOF},
		{-1, EOF},
		{100, EOF},
	}
	for _, tt := range tests {
		if got := c.Peek(tt.offset); got != tt.expected {
			t.Errorf("Peek(%d): expected %q, got %q", tt.offset, tt.expected, got)
		}
	}
}

func TestCursorAdvance(t *testing.T) {
	c := NewCursor("abc")
	c.Advance(2)
	if c.Position() != 2 || c.Remaining() != 1 {
		t.Errorf("expected position 2 remaining 1, got %d and %d", c.Position(), c.Remaining())
	}
	c.Advance(-5)
	if c.Position() != 2 {
		t.Errorf("expected negative advance to be ignored, got position %d", c.Position())
	}
	c.Advance(10)
	if !c.AtEnd() || c.Position() != 3 || c.Remaining() != 0 {
		t.Errorf("expected cursor clamped at end, got position %d", c.Position())
	}
	if c.Peek(0) != EOF {
		t.Errorf("expected EOF at end, got %q", c.Peek(0))
	}
}

func TestCursorAtLineStart(t *testing.T) {
	text := "a\nb\r\nc\rd"
	tests := []struct {
		pos      int
		expected bool
	}{
		{0, true},
		{1, false},
		{2, true},  // after \n
		{4, false}, // between \r and \n
		{5, true},  // after \r\n
		{7, true},  // after lone \r
		{8, false},
	}
	for _, tt := range tests {
		c := NewCursor(text)
		c.Advance(tt.pos)
		if got := c.AtLineStart(); got != tt.expected {
			t.Errorf("AtLineStart at %d: expected %v, got %v", tt.pos, tt.expected, got)
		}
	}
}

func TestCursorEmpty(t *testing.T) {
	c := NewCursor("")
	if !c.AtEnd() || !c.AtLineStart() || c.Peek(0) != EOF || c.Remaining() != 0 {
		t.Errorf("unexpected state for empty cursor")
	}
}
