package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/seller-cli/internal/platform"
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture the visible page",
	Long: `Capture the visible part of the page as PNG. Elements matching --mark are
outlined so a reviewer can see what a selector hits.

Examples:
  seller-cli screenshot --output page.png
  seller-cli screenshot --mark ".eds-checkbox__input:checked" --output checked.png`,
	Args: cobra.NoArgs,
	RunE: runScreenshot,
}

func init() {
	rootCmd.AddCommand(screenshotCmd)
	screenshotCmd.Flags().String("output", "", "Output file path (default: stdout as base64)")
	screenshotCmd.Flags().String("mark", "", "Outline elements matching this CSS selector")
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("output")
	mark, _ := cmd.Flags().GetString("mark")

	sess, err := openSession(cmd.Context(), pageOptionsFromFlags())
	if err != nil {
		return err
	}
	defer sess.Close()

	var boxes []markBox
	if mark != "" {
		boxes, err = selectorBoxes(cmd.Context(), sess.Provider.Document, mark)
		if err != nil {
			return err
		}
	}
	data, err := renderAnnotated(cmd.Context(), sess.Provider.Screenshotter, boxes)
	if err != nil {
		return err
	}

	if out != "" {
		return os.WriteFile(out, data, 0o644)
	}

	// Default: write to stdout as base64 for easy agent consumption
	w := cmd.OutOrStdout()
	encoder := base64.NewEncoder(base64.StdEncoding, w)
	if _, err := encoder.Write(data); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

// selectorBoxes outlines every element matching selector, labelled by its
// position.
func selectorBoxes(ctx context.Context, doc platform.Document, selector string) ([]markBox, error) {
	refs, err := doc.QueryAll(ctx, "", selector)
	if err != nil {
		return nil, err
	}
	boxes := make([]markBox, 0, len(refs))
	for i, ref := range refs {
		r, err := doc.Bounds(ctx, ref)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, markBox{
			Bounds: r.Ints(),
			Label:  fmt.Sprint(i + 1),
			Color:  colorMark,
		})
	}
	return boxes, nil
}
