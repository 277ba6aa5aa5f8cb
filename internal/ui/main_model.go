package ui

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/gubarz/mdscan/internal/config"
	"github.com/gubarz/mdscan/internal/highlight"
	"github.com/gubarz/mdscan/internal/index"
	"github.com/gubarz/mdscan/internal/logging"
	"github.com/gubarz/mdscan/internal/output"
)

// ============================================================================
// String Builder Pool - reduces GC pressure from rendering
// ============================================================================

var builderPool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	if b.Cap() < 64*1024 { // Don't pool huge builders
		builderPool.Put(b)
	}
}

// ============================================================================
// Debounce
// ============================================================================

// filterMsg triggers filtering after debounce
type filterMsg struct{}

// debounceFilter returns a command that triggers filtering after a delay
func debounceFilter() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return filterMsg{}
	})
}

// ============================================================================
// Main Model
// ============================================================================

const (
	previewHeight = 8    // code lines shown above the list
	maxResults    = 1000 // filter stops here to keep typing responsive
)

// mainModel is the Bubble Tea model of the code browser
type mainModel struct {
	width     int
	height    int
	textInput textinput.Model
	preview   viewport.Model
	quitting  bool

	items    []*item
	filtered []*item
	cursor   int
	offset   int // list scroll offset
	selected *item

	highlighter *highlight.CodeHighlighter
	colored     map[*item]string

	action string // what enter does, shown in the footer
}

// newMainModel creates a browser over the given items
func newMainModel(items []*item, h *highlight.CodeHighlighter) mainModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	m := mainModel{
		textInput:   ti,
		preview:     viewport.New(80-2, previewHeight),
		items:       items,
		filtered:    items,
		highlighter: h,
		colored:     make(map[*item]string),
		action:      "Enter select",
	}
	m.refreshPreview()
	return m
}

// Init implements tea.Model
func (m mainModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 4
		m.preview.Width = max(msg.Width, 80) - 2 // inside the preview border
		m.refreshPreview()
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	case filterMsg:
		m.filterItems()
		return m, nil
	}

	prevQuery := m.textInput.Value()
	var tiCmd tea.Cmd
	m.textInput, tiCmd = m.textInput.Update(msg)
	cmds = append(cmds, tiCmd)

	// Only trigger debounced filter if query changed
	if m.textInput.Value() != prevQuery {
		cmds = append(cmds, debounceFilter())
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes navigation keys; other keys go to the text input
func (m *mainModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return tea.Quit, true
	case "enter":
		if m.cursor < len(m.filtered) {
			m.selected = m.filtered[m.cursor]
			m.quitting = true
			return tea.Quit, true
		}
		return nil, true
	case "up", "ctrl+p":
		m.moveCursor(-1)
	case "down", "ctrl+n":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-10)
	case "pgdown":
		m.moveCursor(10)
	case "home", "ctrl+a":
		m.moveCursor(-len(m.filtered))
	case "end", "ctrl+e":
		m.moveCursor(len(m.filtered))
	case "ctrl+u":
		m.preview.SetYOffset(m.preview.YOffset - previewHeight/2)
	case "ctrl+d":
		m.preview.SetYOffset(m.preview.YOffset + previewHeight/2)
	case "ctrl+o":
		if m.cursor < len(m.filtered) {
			openFileInViewer(m.filtered[m.cursor].doc.Path)
		}
	default:
		return nil, false
	}
	return nil, true
}

// moveCursor moves the cursor by delta, clamping to valid range
func (m *mainModel) moveCursor(delta int) {
	prev := m.current()
	m.cursor = clamp(m.cursor+delta, 0, max(0, len(m.filtered)-1))
	m.adjustOffset()
	if m.current() != prev {
		m.refreshPreview()
	}
}

// adjustOffset ensures cursor is visible within viewport
func (m *mainModel) adjustOffset() {
	viewHeight := max(m.height-previewHeight-5, 3) // approximate list height
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+viewHeight {
		m.offset = m.cursor - viewHeight + 1
	}
	m.offset = clamp(m.offset, 0, max(0, len(m.filtered)-viewHeight))
}

// filterItems filters the item list based on the search query
func (m *mainModel) filterItems() {
	prev := m.current()
	query := strings.TrimSpace(m.textInput.Value())

	if query == "" {
		m.filtered = m.items
	} else {
		words := strings.Fields(strings.ToLower(query))
		m.filtered = make([]*item, 0, min(len(m.items), maxResults))
		for _, it := range m.items {
			if it.matchesQuery(words) {
				m.filtered = append(m.filtered, it)
				if len(m.filtered) >= maxResults {
					break
				}
			}
		}
	}

	m.cursor = clamp(m.cursor, 0, max(0, len(m.filtered)-1))
	m.adjustOffset()
	if m.current() != prev {
		m.refreshPreview()
	}
}

// current returns the item under the cursor, or nil
func (m *mainModel) current() *item {
	if m.cursor < len(m.filtered) {
		return m.filtered[m.cursor]
	}
	return nil
}

// refreshPreview loads the highlighted code of the current item into the preview
func (m *mainModel) refreshPreview() {
	it := m.current()
	if it == nil {
		m.preview.SetContent("")
		return
	}
	colored, ok := m.colored[it]
	if !ok {
		colored = it.code
		if m.highlighter != nil {
			if out, err := m.highlighter.Code(it.lang, it.code); err == nil {
				colored = strings.TrimRight(out, "\n")
			}
		}
		m.colored[it] = colored
	}
	m.preview.SetContent(colored)
	m.preview.GotoTop()
}

// ============================================================================
// Rendering
// ============================================================================

// View implements tea.Model
func (m mainModel) View() string {
	if m.quitting {
		return ""
	}

	width := max(m.width, 80)
	height := max(m.height, 24)

	// preview and list end in a newline, so their newline count is their height
	preview := m.renderPreview(width)
	previewLines := strings.Count(preview, "\n")

	inputLines := 3 // divider + info + input
	listHeight := max(height-previewLines-inputLines, 3)
	list := m.renderList(listHeight, width)
	listLines := strings.Count(list, "\n")

	padding := max(height-previewLines-listLines-inputLines, 0)

	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(preview)
	b.WriteString(list)
	b.WriteString(strings.Repeat("\n", padding))
	b.WriteString(m.renderInput(width))

	return b.String()
}

// renderPreview renders the title line, the framed code preview and a divider
func (m mainModel) renderPreview(width int) string {
	b := getBuilder()
	defer putBuilder(b)

	if it := m.current(); it != nil {
		b.WriteString(styles.Path.Render(it.location()))
		b.WriteString(" ")
		b.WriteString(styles.Dim.Render(kindLabel(it)))
	}
	b.WriteString("\n")

	b.WriteString(styles.Border.Render(m.preview.View()))
	b.WriteString("\n")

	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")

	return b.String()
}

// renderList renders the scrollable list of items
func (m *mainModel) renderList(maxHeight, width int) string {
	if len(m.filtered) == 0 {
		return ""
	}

	start, end := scrollWindow(m.cursor, len(m.filtered), maxHeight, &m.offset)

	b := getBuilder()
	defer putBuilder(b)
	for i := start; i < end; i++ {
		b.WriteString(m.renderListItem(m.filtered[i], i == m.cursor, width))
		b.WriteString("\n")
	}

	return b.String()
}

// renderListItem renders a single list row: location, kind and first code line
func (m mainModel) renderListItem(it *item, selected bool, width int) string {
	pathStyle, kindStyle, codeStyle := styles.Path, styles.Dim, styles.ForKind(it.kind)
	gap := "  "
	if selected {
		pathStyle = styles.WithSelection(pathStyle)
		kindStyle = styles.WithSelection(kindStyle)
		codeStyle = styles.WithSelection(codeStyle)
		gap = styles.Selected.Render(gap)
	}

	loc := it.location()
	kind := fmt.Sprintf("%-12s", truncateString(kindLabel(it), 12))
	room := max(width-lipgloss.Width(loc)-lipgloss.Width(kind)-8, 10)
	code := truncateString(firstLine(it.code), room)

	line := pathStyle.Render(loc) + gap + kindStyle.Render(kind) + gap + codeStyle.Render(code)
	if selected {
		return styles.Cursor.Render("▶ ") + line
	}
	return "  " + line
}

// renderInput renders the input section at the bottom
func (m mainModel) renderInput(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render(fmt.Sprintf("  %d/%d", len(m.filtered), len(m.items))))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("Ctrl+U/D scroll"))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("Ctrl+O open"))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render(m.action))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("ESC exit"))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	return b.String()
}

// actionLabel describes what enter does under the configured output mode
func actionLabel(out *output.Output) string {
	mode, err := output.ParseMode(config.GetOutput())
	if err != nil {
		return "Enter select"
	}
	if mode == output.ModeExec {
		return "Enter exec in " + filepath.Base(out.Shell())
	}
	return "Enter " + string(mode)
}

// kindLabel returns the kind, with the fence language when there is one
func kindLabel(it *item) string {
	if it.lang != "" {
		return it.kind.String() + " " + it.lang
	}
	return it.kind.String()
}

// ============================================================================
// Run TUI
// ============================================================================

// getTTY returns file handles for TUI input/output
// Uses /dev/tty to bypass shell pipes and command substitution
func getTTY() (in *os.File, out *os.File, cleanup func()) {
	var closers []func()

	// If stdout is not a terminal (piped or captured by $()), draw on /dev/tty
	if fileInfo, err := os.Stdout.Stat(); err != nil || (fileInfo.Mode()&os.ModeCharDevice) == 0 {
		out, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			out = os.Stderr // Last resort fallback
		} else {
			closers = append(closers, func() { out.Close() })
		}

		in, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
		if err != nil {
			in = os.Stdin
		} else {
			closers = append(closers, func() { in.Close() })
		}

		// Tell lipgloss to use the TTY for color detection
		lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(out))

		return in, out, func() {
			for _, c := range closers {
				c()
			}
		}
	}

	return os.Stdin, os.Stdout, func() {}
}

// Run launches the browser over idx and hands the chosen code to out
func Run(idx *index.Index, out *output.Output, initialQuery string, log *zap.SugaredLogger) error {
	if log == nil {
		log = logging.Nop()
	}

	items := buildItems(idx)
	if len(items) == 0 {
		return fmt.Errorf("no code found in %d documents", len(idx.Documents))
	}

	m := newMainModel(items, highlight.NewCodeHighlighter(config.GetChromaStyle()))
	m.action = actionLabel(out)
	if initialQuery != "" {
		m.textInput.SetValue(initialQuery)
		m.filterItems()
	}

	ttyIn, ttyOut, cleanup := getTTY()
	RefreshStyles() // Refresh after getTTY sets up the renderer
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(ttyOut), tea.WithInput(ttyIn))
	finalModel, err := p.Run()
	cleanup()

	if err != nil {
		return fmt.Errorf("running browser: %w", err)
	}

	result := finalModel.(mainModel)
	if result.selected == nil {
		log.Debugw("browser closed without selection")
		return nil
	}

	log.Debugw("selected", "path", result.selected.doc.Path, "line", result.selected.line, "kind", result.selected.kind)
	return out.Send(result.selected.code)
}

// ============================================================================
// Helpers
// ============================================================================

// clamp restricts v to the range [minV, maxV]
func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// scrollWindow calculates the visible range for a scrollable list
func scrollWindow(cursor, total, height int, offset *int) (start, end int) {
	if cursor < *offset {
		*offset = cursor
	}
	if cursor >= *offset+height {
		*offset = cursor - height + 1
	}
	*offset = clamp(*offset, 0, max(0, total-height))

	start = *offset
	end = min(start+height, total)
	return
}

// truncateString truncates a string to maxLen cells with ellipsis
func truncateString(s string, maxLen int) string {
	if maxLen <= 3 {
		return s
	}
	return ansi.Truncate(s, maxLen, "...")
}

// firstLine returns the first line of a string
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// openFileInViewer opens the file in the configured editor or system default
func openFileInViewer(filePath string) {
	var cmd *exec.Cmd

	if editor := config.GetEditor(); editor != "" {
		cmd = exec.Command(editor, filePath)
	} else {
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", filePath)
		case "windows":
			cmd = exec.Command("cmd", "/c", "start", "", filePath)
		default: // linux, freebsd, etc.
			cmd = exec.Command("xdg-open", filePath)
		}
	}
	_ = cmd.Start()
}
