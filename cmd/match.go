package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/seller-cli/internal/batch"
	"github.com/mj1618/seller-cli/internal/ident"
	"github.com/mj1618/seller-cli/internal/model"
	"github.com/mj1618/seller-cli/internal/output"
)

// MatchResult is the output of `match`.
type MatchResult struct {
	Profile  string        `yaml:"profile"   json:"profile"`
	Matches  []model.Match `yaml:"matches"   json:"matches"`
	NotFound []string      `yaml:"not_found" json:"not_found"`
}

// Text lists each match on its own line.
func (r MatchResult) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Matches: %d\n", len(r.Matches))
	for _, m := range r.Matches {
		fmt.Fprintf(&b, "  row %d  %s  <- %s\n", m.RowIndex+1, m.CellText, m.Identifier)
	}
	fmt.Fprintf(&b, "Not found: %d", len(r.NotFound))
	for _, id := range r.NotFound {
		b.WriteString("\n  " + id)
	}
	return b.String()
}

var matchCmd = &cobra.Command{
	Use:   "match [identifier...]",
	Short: "Show which order rows match, without ticking anything",
	Long: `Preview a check: find the order rows whose tracking number column contains
one of the identifiers and print them. The page is only read.`,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
	addInputFlags(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	ids, err := ident.Parse(raw)
	if err != nil {
		return err
	}
	sess, err := openSession(cmd.Context(), pageOptionsFromFlags())
	if err != nil {
		return err
	}
	defer sess.Close()

	res, err := matchOrders(cmd.Context(), sess, ids)
	if err != nil {
		return err
	}
	return output.Print(res)
}

func matchOrders(ctx context.Context, sess *session, ids []string) (MatchResult, error) {
	if err := requireTable(sess.Profile); err != nil {
		return MatchResult{}, err
	}
	m := &batch.Matcher{Doc: sess.Provider.Document, Layout: sess.Profile.Layout}
	matches, err := m.Match(ctx, ids)
	if err != nil {
		return MatchResult{}, err
	}
	return MatchResult{
		Profile:  sess.Profile.Name,
		Matches:  matches,
		NotFound: unmatched(ids, matches),
	}, nil
}

// unmatched returns the identifiers that took part in no match, keeping
// input order.
func unmatched(ids []string, matches []model.Match) []string {
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		seen[m.Identifier] = true
	}
	out := []string{}
	for _, id := range ids {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}
