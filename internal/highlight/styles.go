package highlight

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/mdscan/internal/config"
	"github.com/gubarz/mdscan/internal/parser"
)

// StyleManager encapsulates the styles used to present artifacts
type StyleManager struct {
	renderer *lipgloss.Renderer

	Plain     lipgloss.Style
	Delimiter lipgloss.Style
	Inline    lipgloss.Style
	Indented  lipgloss.Style
	Fenced    lipgloss.Style

	// Chrome styles
	Path    lipgloss.Style
	Dim     lipgloss.Style
	Border  lipgloss.Style
	Divider lipgloss.Style

	// Colors for direct access
	SelectedBg lipgloss.Color
}

// DefaultStyles returns a StyleManager with default styles on the default renderer
func DefaultStyles() *StyleManager {
	return NewStyles(lipgloss.DefaultRenderer())
}

// NewStyles returns a StyleManager with default styles bound to r
func NewStyles(r *lipgloss.Renderer) *StyleManager {
	base := baseStyle(r)
	return &StyleManager{
		renderer:   r,
		Plain:      base,
		Delimiter:  base.Foreground(lipgloss.Color("241")),
		Inline:     base.Foreground(lipgloss.Color("3")),
		Indented:   base.Foreground(lipgloss.Color("2")),
		Fenced:     base.Foreground(lipgloss.Color("6")),
		Path:       base.Foreground(lipgloss.Color("5")).Bold(true),
		Dim:        base.Foreground(lipgloss.Color("241")),
		Border:     base.Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		Divider:    base.Foreground(lipgloss.Color("240")),
		SelectedBg: lipgloss.Color("236"),
	}
}

// baseStyle keeps tabs as they are; rendered documents must not change
func baseStyle(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().TabWidth(lipgloss.NoTabConversion)
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	base := baseStyle(s.renderer)
	dim := lipgloss.Color(config.GetColorDim())
	border := lipgloss.Color(config.GetColorBorder())

	s.Plain = base
	s.Delimiter = base.Foreground(dim)
	s.Inline = base.Foreground(parseANSIColor(config.GetColorInline()))
	s.Indented = base.Foreground(parseANSIColor(config.GetColorIndented()))
	s.Fenced = base.Foreground(parseANSIColor(config.GetColorFenced()))
	s.Path = base.Foreground(parseANSIColor(config.GetColorPath())).Bold(true)
	s.Dim = base.Foreground(dim)
	s.Border = base.Border(lipgloss.RoundedBorder()).BorderForeground(border)
	s.Divider = base.Foreground(border)
}

// For returns the style of a presentation class
func (s *StyleManager) For(c Class) lipgloss.Style {
	switch c {
	case ClassDelimiter:
		return s.Delimiter
	case ClassInline:
		return s.Inline
	case ClassIndented:
		return s.Indented
	case ClassFenced:
		return s.Fenced
	default:
		return s.Plain
	}
}

// ForKind returns the payload style of an artifact kind
func (s *StyleManager) ForKind(k parser.Kind) lipgloss.Style {
	return s.For(classOf(k))
}

// WithSelection returns a copy of the given style with the selected background applied
func (s *StyleManager) WithSelection(style lipgloss.Style) lipgloss.Style {
	return style.Background(s.SelectedBg)
}

// Render returns text with every artifact styled by its class
func (s *StyleManager) Render(text string, artifacts []parser.Artifact) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, span := range Classify(text, artifacts) {
		b.WriteString(renderLines(s.For(span.Class), span.Text(text)))
	}
	return b.String()
}

// renderLines styles each line on its own so lipgloss does not pad lines to a common width
func renderLines(style lipgloss.Style, text string) string {
	if !strings.Contains(text, "\n") {
		if text == "" {
			return ""
		}
		return style.Render(text)
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// parseANSIColor converts ANSI color codes to lipgloss colors
func parseANSIColor(code string) lipgloss.Color {
	ansiToLipgloss := map[string]string{
		"30": "0", "31": "1", "32": "2", "33": "3",
		"34": "4", "35": "5", "36": "6", "37": "7",
		"90": "8", "91": "9", "92": "10", "93": "11",
		"94": "12", "95": "13", "96": "14", "97": "15",
	}
	if mapped, ok := ansiToLipgloss[code]; ok {
		return lipgloss.Color(mapped)
	}
	return lipgloss.Color(code)
}
