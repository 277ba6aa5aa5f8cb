package parser

import "strings"

const (
	codeIndent = 4 // spaces that turn a line into indented code
	minFence   = 3 // shortest fence run
	maxQuoteWS = 3 // spaces allowed before a '>' marker
)

// ============================================================================
// Lines
// ============================================================================

// line is one line of the text with its quote prefix resolved
type line struct {
	start  int   // first byte of the line
	end    int   // end of content, terminator excluded
	next   int   // start of the following line
	last   bool  // no terminator followed
	marks  []int // offset just past each quote marker
	body   int   // offset after the full quote prefix
	indent int   // literal spaces at the start of the body
	lead   int   // offset of the first non-blank byte after body (end if blank)
	blank  bool
}

func (l line) depth() int {
	return len(l.marks)
}

// stripQuotes returns the offset after at most n quote markers
func (l line) stripQuotes(n int) int {
	if n <= 0 || len(l.marks) == 0 {
		return l.start
	}
	return l.marks[min(n, len(l.marks))-1]
}

// ============================================================================
// Scanner
// ============================================================================

// openBlock is the indented or fenced block currently being collected
type openBlock struct {
	Block
	pending []Artifact // blank lines held until more indented code follows
}

// paragraph is a run of plain lines scanned for inline code when it ends.
// Inside a quote every line is its own run, so spans never cross a quote prefix.
type paragraph struct {
	active bool
	start  int
	end    int
}

// Scanner walks one Markdown text and reports code artifacts in document order.
// A Scanner is single use: Run consumes its cursor.
type Scanner struct {
	text       string
	cur        *Cursor
	onArtifact func(Artifact) bool
	onBlock    func(Block) bool
	stopped    bool

	// state carried from the previous line
	first     bool
	prevDepth int
	boundary  bool

	block *openBlock
	para  paragraph
}

// NewScanner creates a scanner over text
func NewScanner(text string) *Scanner {
	return &Scanner{
		text:  text,
		cur:   NewCursor(text),
		first: true,
	}
}

// OnArtifact sets the callback receiving each artifact. Returning false stops the scan.
func (s *Scanner) OnArtifact(fn func(Artifact) bool) *Scanner {
	s.onArtifact = fn
	return s
}

// OnBlock sets the callback receiving each finished code block. Returning false stops the scan.
func (s *Scanner) OnBlock(fn func(Block) bool) *Scanner {
	s.onBlock = fn
	return s
}

// Run scans the whole text, or until a callback asks to stop
func (s *Scanner) Run() {
	for !s.stopped {
		l := s.readLine()
		s.step(l)
		if l.last {
			break
		}
	}
	s.closeBlock()
	s.flushParagraph()
}

func (s *Scanner) emit(a Artifact) {
	if s.stopped {
		return
	}
	if s.block != nil {
		s.block.Lines = append(s.block.Lines, a)
	}
	if s.onArtifact != nil && !s.onArtifact(a) {
		s.stopped = true
	}
}

// readLine consumes one line from the cursor and resolves its quote prefix
func (s *Scanner) readLine() line {
	c := s.cur
	l := line{start: c.Position()}

	n := 0
	for r := c.Peek(n); r != EOF && r != '\n' && r != '\r'; r = c.Peek(n) {
		n++
	}
	l.end = l.start + n

	// Quote markers: up to three spaces, '>', one optional space. Repeated.
	i := 0
	for {
		j := i
		for j-i < maxQuoteWS && c.Peek(j) == ' ' {
			j++
		}
		if c.Peek(j) != '>' {
			break
		}
		j++
		if c.Peek(j) == ' ' {
			j++
		}
		l.marks = append(l.marks, l.start+j)
		i = j
	}
	l.body = l.start + i

	for c.Peek(i) == ' ' {
		i++
	}
	l.indent = l.start + i - l.body
	for r := c.Peek(i); r == ' ' || r == '\t'; r = c.Peek(i) {
		i++
	}
	l.lead = l.start + i
	l.blank = l.lead >= l.end

	c.Advance(n)
	switch c.Peek(0) {
	case '\r':
		if c.Peek(1) == '\n' {
			c.Advance(2)
		} else {
			c.Advance(1)
		}
	case '\n':
		c.Advance(1)
	default:
		l.last = true
	}
	l.next = c.Position()
	return l
}

func (s *Scanner) step(l line) {
	boundary := s.first || s.boundary || l.depth() != s.prevDepth
	s.first = false
	s.prevDepth = l.depth()

	if s.block != nil {
		switch s.block.Kind {
		case FencedCode:
			s.fencedLine(l)
			return
		case IndentedCode:
			if s.indentedLine(l) {
				return
			}
			s.closeBlock()
		}
	}
	s.plainLine(l, boundary)
}

// plainLine handles a line outside any code block
func (s *Scanner) plainLine(l line, boundary bool) {
	switch {
	case boundary && l.indent >= codeIndent:
		s.flushParagraph()
		s.openIndented(l)
		return
	case l.blank:
		s.flushParagraph()
		s.boundary = true
		return
	}

	if fence, info, ok := s.openingFence(l); ok {
		s.flushParagraph()
		s.block = &openBlock{Block: Block{
			Kind:  FencedCode,
			Outer: Range{Start: l.start, End: l.end},
			Inner: Range{Start: l.next, End: l.next},
			Depth: l.depth(),
			Fence: fence,
			Info:  info,
		}}
		s.boundary = false
		return
	}

	if !boundary && s.para.active && l.depth() == 0 {
		s.para.end = l.end
	} else {
		s.flushParagraph()
		s.para = paragraph{active: true, start: l.start, end: l.end}
	}
	s.boundary = false
}

// ============================================================================
// Indented code
// ============================================================================

func (s *Scanner) openIndented(l line) {
	s.block = &openBlock{Block: Block{
		Kind:  IndentedCode,
		Outer: Range{Start: l.start, End: l.end},
		Inner: Range{Start: l.body + codeIndent, End: l.end},
		Depth: l.depth(),
	}}
	s.indentedCode(l)
}

// indentedLine reports whether l belongs to the open indented block
func (s *Scanner) indentedLine(l line) bool {
	b := s.block
	if l.blank && l.indent < codeIndent {
		b.pending = append(b.pending, Artifact{
			Kind:  IndentedCode,
			Outer: Range{Start: l.start, End: l.end},
			Inner: Range{Start: l.end, End: l.end},
		})
		s.boundary = true
		return true
	}
	if l.depth() < b.Depth || l.indent < codeIndent {
		return false
	}
	pending := b.pending
	b.pending = nil
	for _, a := range pending {
		s.emit(a)
	}
	s.indentedCode(l)
	return true
}

func (s *Scanner) indentedCode(l line) {
	s.emit(Artifact{
		Kind:  IndentedCode,
		Outer: Range{Start: l.start, End: l.end},
		Inner: Range{Start: l.body + codeIndent, End: l.end},
	})
	s.block.Outer.End = l.end
	s.block.Inner.End = l.end
	s.boundary = true
}

// ============================================================================
// Fenced code
// ============================================================================

// fenceRun returns the fence character and run length starting at off
func (s *Scanner) fenceRun(off, end int) (byte, int) {
	if off >= end {
		return 0, 0
	}
	ch := s.text[off]
	if ch != '`' && ch != '~' {
		return 0, 0
	}
	n := 0
	for off+n < end && s.text[off+n] == ch {
		n++
	}
	return ch, n
}

// openingFence reports whether l opens a fenced block
func (s *Scanner) openingFence(l line) (Fence, string, bool) {
	ch, n := s.fenceRun(l.lead, l.end)
	if n < minFence {
		return Fence{}, "", false
	}
	info := strings.TrimSpace(s.text[l.lead+n : l.end])
	if ch == '`' && strings.IndexByte(info, '`') >= 0 {
		return Fence{}, "", false
	}
	return Fence{Char: ch, Len: n}, info, true
}

// closingFence reports whether l closes the open fenced block
func (s *Scanner) closingFence(l line) bool {
	b := s.block
	if l.depth() > b.Depth {
		return false
	}
	ch, n := s.fenceRun(l.lead, l.end)
	if !b.Fence.closes(ch, n) {
		return false
	}
	return strings.TrimSpace(s.text[l.lead+n:l.end]) == ""
}

func (s *Scanner) fencedLine(l line) {
	b := s.block
	if s.closingFence(l) {
		b.Outer.End = l.end
		b.Closed = true
		s.closeBlock()
		s.boundary = true
		return
	}

	a := Artifact{
		Kind:  FencedCode,
		Outer: Range{Start: l.start, End: l.end},
		Inner: Range{Start: l.stripQuotes(b.Depth), End: l.end},
	}
	if len(b.Lines) == 0 {
		b.Inner.Start = a.Inner.Start
	}
	s.emit(a)
	b.Outer.End = l.end
	b.Inner.End = l.end
	s.boundary = true
}

// closeBlock finishes the open block, dropping held blank lines
func (s *Scanner) closeBlock() {
	b := s.block
	if b == nil {
		return
	}
	s.block = nil
	if s.stopped || s.onBlock == nil {
		return
	}
	if !s.onBlock(b.Block) {
		s.stopped = true
	}
}

// ============================================================================
// Inline code
// ============================================================================

// flushParagraph scans the pending paragraph for inline code spans
func (s *Scanner) flushParagraph() {
	p := s.para
	s.para = paragraph{}
	if !p.active || s.stopped {
		return
	}

	c := NewCursor(s.text[:p.end])
	c.Advance(p.start)
	for !c.AtEnd() && !s.stopped {
		switch c.Peek(0) {
		case '\\':
			c.Advance(2)
		case '`':
			s.inlineSpan(c, p.end)
		default:
			c.Advance(1)
		}
	}
}

// inlineSpan reads a backtick run at the cursor and reports the span it opens, if any.
// The closer is the next run of n backticks; when none exists the opener is retried shorter.
func (s *Scanner) inlineSpan(c *Cursor, end int) {
	open := c.Position()
	n := 0
	for c.Peek(n) == '`' {
		n++
	}

	for k := n; k >= 1; k-- {
		from := open + k
		idx := strings.Index(s.text[from:end], strings.Repeat("`", k))
		if idx < 0 {
			continue
		}
		closeAt := from + idx
		s.emit(Artifact{
			Kind:  InlineCode,
			Outer: Range{Start: open, End: closeAt + k},
			Inner: Range{Start: from, End: closeAt},
		})
		c.Advance(closeAt + k - open)
		return
	}
	c.Advance(n)
}
