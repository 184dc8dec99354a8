package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/seller-cli/internal/batch"
	"github.com/mj1618/seller-cli/internal/ident"
	"github.com/mj1618/seller-cli/internal/output"
	"github.com/mj1618/seller-cli/internal/platform"
	"github.com/mj1618/seller-cli/internal/style"
)

// CheckResult is the output of `check`.
type CheckResult struct {
	Profile      string `yaml:"profile" json:"profile"`
	batch.Result `yaml:",inline"`
	Screenshot   string `yaml:"screenshot,omitempty" json:"screenshot,omitempty"`
}

// Text renders the summary shown to a person.
func (r CheckResult) Text() string {
	s := output.Summary(r.Result)
	if r.Screenshot != "" {
		s += "\n\nScreenshot: " + r.Screenshot
	}
	return s
}

var checkCmd = &cobra.Command{
	Use:   "check [identifier...]",
	Short: "Tick the order rows whose tracking number matches",
	Long: `Tick the checkbox of every order row whose tracking number column contains
one of the given identifiers, then print how many were checked.

Identifiers come from the arguments, --numbers, --file, or stdin, one per line.
Blank lines are ignored. Matching is a case-sensitive substring test, so
"ABC123" matches a row showing "SF-ABC123-CN". Rows that are already checked
are skipped, and rows are processed one at a time.

Examples:
  seller-cli check SF123 SF456
  pbpaste | seller-cli check --format text
  seller-cli check --file numbers.txt --profile shopee-en
  seller-cli check --html orders.html --numbers "SF123" --details`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addInputFlags(checkCmd)
	checkCmd.Flags().Bool("details", false, "Include per-row results and matches")
	checkCmd.Flags().String("screenshot", "", "Write an annotated PNG of the outcome to this path")
	checkCmd.Flags().Duration("wait", 0, "Wait up to this long for the order table to appear")
	checkCmd.Flags().Bool("no-styles", false, "Do not install the profile's stylesheets")
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("numbers", "", "Identifiers, one per line")
	cmd.Flags().String("file", "", "Read identifiers from a file (- for stdin)")
}

// readInput gathers identifier text from args, --numbers, --file and, when
// nothing else was given and stdin is not a terminal, stdin.
func readInput(cmd *cobra.Command, args []string, stdin io.Reader) (string, error) {
	var parts []string
	parts = append(parts, args...)
	if n, _ := cmd.Flags().GetString("numbers"); n != "" {
		parts = append(parts, n)
	}
	file, _ := cmd.Flags().GetString("file")
	switch file {
	case "":
	case "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		parts = append(parts, string(b))
	default:
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read identifiers: %w", err)
		}
		parts = append(parts, string(b))
	}
	if len(parts) == 0 && stdinPiped() {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		parts = append(parts, string(b))
	}
	return strings.Join(parts, "\n"), nil
}

func stdinPiped() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice == 0
}

// checkOptions tune one check run.
type checkOptions struct {
	Details    bool
	Screenshot string
	Wait       time.Duration
	NoStyles   bool
	Clock      batch.Clock
}

func runCheck(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	ids, err := ident.Parse(raw)
	if err != nil {
		return err
	}

	var opts checkOptions
	opts.Details, _ = cmd.Flags().GetBool("details")
	opts.Screenshot, _ = cmd.Flags().GetString("screenshot")
	opts.Wait, _ = cmd.Flags().GetDuration("wait")
	opts.NoStyles, _ = cmd.Flags().GetBool("no-styles")

	sess, err := openSession(cmd.Context(), pageOptionsFromFlags())
	if err != nil {
		return err
	}
	defer sess.Close()

	res, err := checkOrders(cmd.Context(), sess, ids, opts)
	if err != nil {
		// A batch that stopped before toggling still reports what was not found.
		if batch.IsFatal(err) && len(res.Residual) > 0 {
			if perr := output.Print(res); perr != nil {
				return perr
			}
		}
		return err
	}
	return output.Print(res)
}

// checkOrders runs one batch on an attached page. The profile stylesheets
// are installed only once matching has succeeded, so an aborted batch leaves
// the page untouched. On error the result still carries the residual.
func checkOrders(ctx context.Context, sess *session, ids []string, opts checkOptions) (CheckResult, error) {
	p := sess.Profile
	if err := requireTable(p); err != nil {
		return CheckResult{}, err
	}
	doc := sess.Provider.Document

	if opts.Wait > 0 {
		if _, err := platform.WaitFor(ctx, doc, p.Layout.Table, opts.Wait, 0); err != nil {
			return CheckResult{}, err
		}
	}

	r := &batch.Runner{
		Doc:     doc,
		Layout:  p.Layout,
		Timings: p.Timings,
		Clock:   opts.Clock,
		Logger:  slog.Default().With("profile", p.Name),
		BeforeToggle: func(ctx context.Context) error {
			if opts.NoStyles || sess.Provider.Styles == nil {
				return nil
			}
			if _, err := style.Apply(ctx, sess.Provider.Styles, p.Styles); err != nil {
				slog.Warn("stylesheets not installed", "error", err)
			}
			return nil
		},
	}
	res, err := r.Run(ctx, ids)

	out := CheckResult{Profile: p.Name, Result: res}
	if err == nil && opts.Screenshot != "" {
		if err := captureAnnotated(ctx, sess.Provider.Screenshotter, outcomeBoxes(res.Rows), opts.Screenshot); err != nil {
			slog.Warn("screenshot not written", "error", err)
		} else {
			out.Screenshot = opts.Screenshot
		}
	}
	if !opts.Details {
		out.Matches = nil
		out.Rows = nil
	}
	return out, err
}
