package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/seller-cli/internal/output"
	"github.com/mj1618/seller-cli/internal/platform"
)

// WaitResult is the output of `wait`.
type WaitResult struct {
	OK       bool   `yaml:"ok"       json:"ok"`
	Action   string `yaml:"action"   json:"action"`
	Selector string `yaml:"selector" json:"selector"`
	Elapsed  string `yaml:"elapsed"  json:"elapsed"`
}

var waitCmd = &cobra.Command{
	Use:   "wait [selector]",
	Short: "Wait for an element to appear on the page",
	Long: `Poll the page until the CSS selector matches. Without a selector the
profile's order table is awaited.

Examples:
  seller-cli wait
  seller-cli wait "tr.eds-table__row" --timeout 30s`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWait,
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().Duration("timeout", platform.DefaultWaitTimeout, "Max time to wait")
	waitCmd.Flags().Duration("interval", 200*time.Millisecond, "Polling interval")
}

func runWait(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	interval, _ := cmd.Flags().GetDuration("interval")

	sess, err := openSession(cmd.Context(), pageOptionsFromFlags())
	if err != nil {
		return err
	}
	defer sess.Close()

	selector := sess.Profile.Layout.Table
	if len(args) == 1 {
		selector = args[0]
	}
	res, err := waitForSelector(cmd.Context(), sess.Provider.Document, selector, timeout, interval)
	if err != nil {
		return err
	}
	return output.Print(res)
}

var errNoSelector = errors.New("no selector given and the profile has no order table")

func waitForSelector(ctx context.Context, doc platform.Document, selector string, timeout, interval time.Duration) (WaitResult, error) {
	if selector == "" {
		return WaitResult{}, errNoSelector
	}
	start := time.Now()
	if _, err := platform.WaitFor(ctx, doc, selector, timeout, interval); err != nil {
		return WaitResult{}, err
	}
	return WaitResult{
		OK:       true,
		Action:   "wait",
		Selector: selector,
		Elapsed:  time.Since(start).Round(time.Millisecond).String(),
	}, nil
}
