// Package output delivers a selected code payload: printed, copied or run.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/gubarz/mdscan/internal/config"
	"github.com/gubarz/mdscan/internal/logging"
)

// ErrUnknownMode is returned for an output mode other than print, copy or exec
var ErrUnknownMode = errors.New("unknown output mode")

// ============================================================================
// Clipboard Interface
// ============================================================================

// Clipboard defines the interface for clipboard operations
type Clipboard interface {
	Copy(text string) error
}

// systemClipboard implements Clipboard using system commands
type systemClipboard struct {
	fallback io.Writer
}

// Copy copies text to the system clipboard, or writes it to the fallback
// writer when no clipboard tool is installed
func (c *systemClipboard) Copy(text string) error {
	cmd := findClipboardCommand()
	if cmd == nil {
		_, err := fmt.Fprintln(c.fallback, text)
		return err
	}
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("copying with %s: %w", cmd.Path, err)
	}
	return nil
}

// findClipboardCommand returns the appropriate clipboard command for the system
func findClipboardCommand() *exec.Cmd {
	switch {
	case commandExists("wl-copy"):
		return exec.Command("wl-copy")
	case commandExists("xclip"):
		return exec.Command("xclip", "-selection", "clipboard")
	case commandExists("xsel"):
		return exec.Command("xsel", "--clipboard", "--input")
	case commandExists("pbcopy"):
		return exec.Command("pbcopy")
	default:
		return nil
	}
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// ============================================================================
// Output
// ============================================================================

// Mode represents how a selected payload is handled
type Mode string

const (
	ModePrint Mode = "print"
	ModeCopy  Mode = "copy"
	ModeExec  Mode = "exec"
)

// ParseMode validates a mode name; the empty string means print
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModePrint, nil
	case ModePrint, ModeCopy, ModeExec:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: print, copy, exec)", ErrUnknownMode, s)
	}
}

// Output sends payloads to stdout, the clipboard or the shell
type Output struct {
	shell     string
	clipboard Clipboard
	stdout    io.Writer
	stderr    io.Writer
	stdin     io.Reader
	log       *zap.SugaredLogger
}

// New creates an Output using the configured shell and the system clipboard
func New(log *zap.SugaredLogger) *Output {
	if log == nil {
		log = logging.Nop()
	}
	return &Output{
		shell:     config.GetShell(),
		clipboard: &systemClipboard{fallback: os.Stdout},
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		stdin:     os.Stdin,
		log:       log,
	}
}

// WithClipboard sets a custom clipboard implementation (useful for testing)
func (o *Output) WithClipboard(c Clipboard) *Output {
	o.clipboard = c
	return o
}

// WithWriters redirects printed output and the streams of executed commands
func (o *Output) WithWriters(stdout, stderr io.Writer) *Output {
	o.stdout = stdout
	o.stderr = stderr
	if c, ok := o.clipboard.(*systemClipboard); ok {
		c.fallback = stdout
	}
	return o
}

// WithShell overrides the configured shell
func (o *Output) WithShell(shell string) *Output {
	o.shell = shell
	return o
}

// Shell returns the shell used for exec mode
func (o *Output) Shell() string {
	return o.shell
}

// Send handles code according to the configured output mode
func (o *Output) Send(code string) error {
	mode, err := ParseMode(config.GetOutput())
	if err != nil {
		return err
	}
	return o.SendWithMode(code, mode)
}

// SendWithMode handles code with an explicit mode
func (o *Output) SendWithMode(code string, mode Mode) error {
	o.log.Debugw("sending payload", "mode", mode, "bytes", len(code))
	switch mode {
	case ModeExec:
		return o.Execute(code)
	case ModeCopy:
		return o.clipboard.Copy(code)
	case ModePrint, "":
		_, err := fmt.Fprintln(o.stdout, code)
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// ============================================================================
// Command Execution
// ============================================================================

// Execute runs code with the shell attached to the output's streams
func (o *Output) Execute(code string) error {
	cmd := exec.Command(o.shell, "-c", code)
	cmd.Stdin = o.stdin
	cmd.Stdout = o.stdout
	cmd.Stderr = o.stderr
	cmd.Env = os.Environ()
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running with %s: %w", o.shell, err)
	}
	return nil
}
