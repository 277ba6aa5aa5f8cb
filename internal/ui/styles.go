package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/mdscan/internal/config"
	"github.com/gubarz/mdscan/internal/highlight"
)

// StyleManager extends the document styles with the list chrome of the browser
type StyleManager struct {
	*highlight.StyleManager

	Cursor   lipgloss.Style
	Selected lipgloss.Style
}

// DefaultStyles returns browser styles bound to the current default renderer
func DefaultStyles() *StyleManager {
	base := highlight.DefaultStyles()
	return &StyleManager{
		StyleManager: base,
		Cursor:       lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Selected:     lipgloss.NewStyle().Background(base.SelectedBg),
	}
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	s.StyleManager.LoadFromConfig()
	s.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color(config.GetColorCursor()))
	s.Selected = lipgloss.NewStyle().Background(s.SelectedBg)
}

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles rebuilds the global styles on the default renderer and applies config
func RefreshStyles() {
	styles = DefaultStyles()
	styles.LoadFromConfig()
}
