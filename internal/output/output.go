// Package output prints command results.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/seller-cli/internal/batch"
	"github.com/mj1618/seller-cli/internal/ident"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatYAML, FormatJSON, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (expected yaml, json, or text)", s)
	}
}

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Texter is implemented by results with a human-readable rendering.
type Texter interface {
	Text() string
}

// Print serializes v to stdout in the current output format. In text mode,
// values without a Text method fall back to YAML.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		if PrettyOutput {
			return PrintPrettyJSON(v)
		}
		return PrintJSON(v)
	case FormatYAML:
		return PrintYAML(v)
	case FormatText:
		if t, ok := v.(Texter); ok {
			return PrintText(t.Text())
		}
		return PrintYAML(v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to stdout as compact single-line JSON.
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintPrettyJSON serializes v to stdout as indented JSON.
func PrintPrettyJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintYAML serializes v to stdout as YAML.
func PrintYAML(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// PrintText writes s followed by a newline.
func PrintText(s string) error {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := os.Stdout.WriteString(s)
	return err
}

// Summary renders a finished batch for a person to read.
func Summary(r batch.Result) string {
	var b strings.Builder
	b.WriteString("Processing complete!\n")
	fmt.Fprintf(&b, "Successfully checked: %d\n", r.Successes)
	fmt.Fprintf(&b, "Check failed: %d\n", r.Failures)
	fmt.Fprintf(&b, "Skipped: %d\n", r.Skips)
	fmt.Fprintf(&b, "Not found: %d", len(r.Residual))
	if len(r.Residual) > 0 {
		fmt.Fprintf(&b, "\n\nNot found (%d):\n%s", len(r.Residual), ident.Join(r.Residual))
	}
	return b.String()
}

// Notice renders an error that stopped a command.
func Notice(err error) string {
	return "Error: " + err.Error()
}
