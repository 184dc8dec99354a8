package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/mj1618/seller-cli/internal/platform/clipboard"
)

// captureStdout runs fn with stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	err = fn()
	w.Close()
	os.Stdout = old

	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestClipboardCommands(t *testing.T) {
	mem := &clipboard.Memory{}
	prev := systemClipboard
	systemClipboard = mem
	t.Cleanup(func() { systemClipboard = prev })

	captureStdout(t, func() error {
		return runClipboardWrite(clipboardWriteCmd, []string{"SF-1\nSF-2"})
	})
	if text, _ := mem.GetText(); text != "SF-1\nSF-2" {
		t.Errorf("clipboard = %q", text)
	}

	out := captureStdout(t, func() error {
		return runClipboardRead(clipboardReadCmd, nil)
	})
	if !strings.Contains(out, "SF-1") {
		t.Errorf("read output = %q", out)
	}

	captureStdout(t, func() error {
		return runClipboardClear(clipboardClearCmd, nil)
	})
	if text, _ := mem.GetText(); text != "" {
		t.Errorf("clipboard after clear = %q", text)
	}
}
