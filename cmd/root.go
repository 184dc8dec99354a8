package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/seller-cli/internal/output"
	"github.com/mj1618/seller-cli/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "seller-cli",
	Short: "Batch-check orders and tidy up seller-center pages",
	Long: `A CLI tool that drives an open seller-center page in Chrome: tick the order
rows whose tracking number matches a pasted list, install personal stylesheets,
and copy product image links.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Errors are printed as a notice and exit 1.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, output.Notice(err))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)

	pf := rootCmd.PersistentFlags()
	pf.String("format", "yaml", "Output format: yaml, json, text")
	pf.Bool("pretty", false, "Pretty-print JSON output")
	pf.String("log-level", "", "Log level: debug, info, warn, error (default from SELLER_CLI_LOG_LEVEL, else info)")
	pf.String("profile", "", "Site profile (default: picked from the page URL)")
	pf.String("config", "", "Profile file (default: $XDG_CONFIG_HOME/seller-cli/profiles.yaml)")
	pf.String("backend", "", "Page backend: chrome, static (default: static with --html, else chrome)")
	pf.String("chrome-url", os.Getenv("SELLER_CLI_CHROME_URL"), "Remote debugging URL of a running Chrome, e.g. ws://127.0.0.1:9222")
	pf.String("url", "", "Page URL to open when no matching tab exists")
	pf.String("html", "", "Saved page to load with the static backend")
	pf.Bool("headless", false, "Run a launched Chrome without a window")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, _ := rootCmd.PersistentFlags().GetString("log-level")
		initLogging(level)

		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		if pretty, err := rootCmd.PersistentFlags().GetBool("pretty"); err == nil && pretty {
			output.PrettyOutput = true
		}
		return nil
	}
}

// initLogging installs a text handler on stderr. An empty level falls back
// to SELLER_CLI_LOG_LEVEL.
func initLogging(level string) {
	if level == "" {
		level = os.Getenv("SELLER_CLI_LOG_LEVEL")
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(level)})))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
