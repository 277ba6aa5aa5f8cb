package highlight

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// CodeHighlighter colours code block payloads with chroma
type CodeHighlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// NewCodeHighlighter creates a highlighter with the named chroma style.
// Unknown style names fall back to chroma's default style.
func NewCodeHighlighter(styleName string) *CodeHighlighter {
	return &CodeHighlighter{
		style:     styles.Get(styleName),
		formatter: formatters.TTY256,
	}
}

// Lexer picks a lexer by language name, then by content, then the plain-text fallback
func Lexer(lang, code string) chroma.Lexer {
	var l chroma.Lexer
	if lang != "" {
		l = lexers.Get(lang)
	}
	if l == nil {
		l = lexers.Analyse(code)
	}
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}

// Code returns code coloured for a 256-colour terminal
func (h *CodeHighlighter) Code(lang, code string) (string, error) {
	it, err := Lexer(lang, code).Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenising %s code: %w", lang, err)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return "", fmt.Errorf("formatting %s code: %w", lang, err)
	}
	return buf.String(), nil
}
