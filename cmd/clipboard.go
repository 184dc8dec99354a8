package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mj1618/seller-cli/internal/output"
	"github.com/mj1618/seller-cli/internal/platform"
	"github.com/mj1618/seller-cli/internal/platform/clipboard"
)

// ClipboardReadResult is the output of `clipboard read`.
type ClipboardReadResult struct {
	OK     bool   `yaml:"ok"     json:"ok"`
	Action string `yaml:"action" json:"action"`
	Value  string `yaml:"text"   json:"text"`
}

// Text implements output.Texter.
func (r ClipboardReadResult) Text() string { return r.Value }

// ClipboardWriteResult is the output of `clipboard write` and `clipboard clear`.
type ClipboardWriteResult struct {
	OK     bool   `yaml:"ok"     json:"ok"`
	Action string `yaml:"action" json:"action"`
}

var clipboardCmd = &cobra.Command{
	Use:   "clipboard",
	Short: "Read, write, or clear the system clipboard",
	Long:  "Interact with the system clipboard, for example to paste copied tracking numbers into `check`.",
}

var clipboardReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the current clipboard text",
	Args:  cobra.NoArgs,
	RunE:  runClipboardRead,
}

var clipboardWriteCmd = &cobra.Command{
	Use:   "write [text]",
	Short: "Write text to the clipboard",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClipboardWrite,
}

var clipboardClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the clipboard",
	Args:  cobra.NoArgs,
	RunE:  runClipboardClear,
}

func init() {
	rootCmd.AddCommand(clipboardCmd)
	clipboardCmd.AddCommand(clipboardReadCmd)
	clipboardCmd.AddCommand(clipboardWriteCmd)
	clipboardCmd.AddCommand(clipboardClearCmd)

	clipboardWriteCmd.Flags().String("text", "", "Text to write to the clipboard (default: argument or stdin)")
}

// systemClipboard is swapped out in tests.
var systemClipboard platform.ClipboardManager = clipboard.New()

func runClipboardRead(cmd *cobra.Command, args []string) error {
	text, err := systemClipboard.GetText()
	if err != nil {
		return err
	}
	return output.Print(ClipboardReadResult{OK: true, Action: "clipboard-read", Value: text})
}

func runClipboardWrite(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	switch {
	case text != "":
	case len(args) == 1:
		text = args[0]
	default:
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(b)
	}
	if err := systemClipboard.SetText(text); err != nil {
		return err
	}
	return output.Print(ClipboardWriteResult{OK: true, Action: "clipboard-write"})
}

func runClipboardClear(cmd *cobra.Command, args []string) error {
	if err := systemClipboard.Clear(); err != nil {
		return err
	}
	return output.Print(ClipboardWriteResult{OK: true, Action: "clipboard-clear"})
}
