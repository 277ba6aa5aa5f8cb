package parser

// EOF is returned by Cursor.Peek past the end of the text.
const EOF rune = -1

// Cursor is a forward-only reader over an immutable text.
// Offsets are byte offsets; every character the scanner cares about is ASCII.
type Cursor struct {
	text string
	pos  int
}

// NewCursor creates a cursor positioned at the start of text
func NewCursor(text string) *Cursor {
	return &Cursor{text: text}
}

// Position returns the current byte offset
func (c *Cursor) Position() int {
	return c.pos
}

// Peek returns the character at the current position plus offset, or EOF
func (c *Cursor) Peek(offset int) rune {
	i := c.pos + offset
	if i < 0 || i >= len(c.text) {
		return EOF
	}
	return rune(c.text[i])
}

// Advance moves forward by n characters, stopping at the end of the text
func (c *Cursor) Advance(n int) {
	if n <= 0 {
		return
	}
	c.pos = min(c.pos+n, len(c.text))
}

// AtLineStart reports whether the position is 0 or directly follows a line terminator.
// The position between "\r" and "\n" is inside the terminator, not a line start.
func (c *Cursor) AtLineStart() bool {
	if c.pos == 0 {
		return true
	}
	switch c.text[c.pos-1] {
	case '\n':
		return true
	case '\r':
		return c.Peek(0) != '\n'
	}
	return false
}

// AtEnd reports whether the whole text has been consumed
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.text)
}

// Remaining returns the number of characters left to read
func (c *Cursor) Remaining() int {
	return len(c.text) - c.pos
}
