// Package clipboard implements platform.ClipboardManager with the host's
// clipboard tools.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// ErrUnavailable is returned when no clipboard tool is installed.
var ErrUnavailable = errors.New("no clipboard tool found (install pbcopy, wl-clipboard, or xclip)")

// tool is a pair of commands that write and read the clipboard.
type tool struct {
	copy  []string
	paste []string
}

var candidates = map[string][]tool{
	"darwin": {
		{copy: []string{"pbcopy"}, paste: []string{"pbpaste"}},
	},
	"windows": {
		{copy: []string{"clip.exe"}, paste: []string{"powershell.exe", "-NoProfile", "-Command", "Get-Clipboard"}},
	},
	"linux": {
		{copy: []string{"wl-copy"}, paste: []string{"wl-paste", "--no-newline"}},
		{copy: []string{"xclip", "-selection", "clipboard"}, paste: []string{"xclip", "-selection", "clipboard", "-o"}},
		{copy: []string{"xsel", "--clipboard", "--input"}, paste: []string{"xsel", "--clipboard", "--output"}},
	},
}

// Clipboard shells out to the first available clipboard tool.
type Clipboard struct {
	goos     string
	lookPath func(string) (string, error)

	once sync.Once
	sel  *tool
}

// New returns a Clipboard for the running OS.
func New() *Clipboard {
	return &Clipboard{goos: runtime.GOOS, lookPath: exec.LookPath}
}

func (c *Clipboard) tool() (*tool, error) {
	c.once.Do(func() {
		for _, t := range candidates[c.goos] {
			if _, err := c.lookPath(t.copy[0]); err != nil {
				continue
			}
			if _, err := c.lookPath(t.paste[0]); err != nil {
				continue
			}
			t := t
			c.sel = &t
			return
		}
	})
	if c.sel == nil {
		return nil, ErrUnavailable
	}
	return c.sel, nil
}

// GetText reads the current text content from the system clipboard.
func (c *Clipboard) GetText() (string, error) {
	t, err := c.tool()
	if err != nil {
		return "", err
	}
	out, err := exec.Command(t.paste[0], t.paste[1:]...).Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", t.paste[0], err)
	}
	if c.goos == "windows" {
		return strings.TrimRight(string(out), "\r\n"), nil
	}
	return string(out), nil
}

// SetText writes text to the system clipboard.
func (c *Clipboard) SetText(text string) error {
	t, err := c.tool()
	if err != nil {
		return err
	}
	cmd := exec.Command(t.copy[0], t.copy[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", t.copy[0], err)
	}
	return nil
}

// Clear empties the system clipboard.
func (c *Clipboard) Clear() error {
	t, err := c.tool()
	if err != nil {
		return err
	}
	cmd := exec.Command(t.copy[0], t.copy[1:]...)
	cmd.Stdin = bytes.NewReader(nil)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", t.copy[0], err)
	}
	return nil
}

// Memory is an in-process clipboard.
type Memory struct {
	mu   sync.Mutex
	text string
}

// GetText returns the stored text.
func (m *Memory) GetText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// SetText stores text.
func (m *Memory) SetText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// Clear empties the stored text.
func (m *Memory) Clear() error {
	return m.SetText("")
}
