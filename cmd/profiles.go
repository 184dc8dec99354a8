package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/seller-cli/internal/config"
	"github.com/mj1618/seller-cli/internal/output"
)

// ProfileSummary is one row of `profiles list`.
type ProfileSummary struct {
	Name        string   `yaml:"name"                  json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Match       []string `yaml:"match,omitempty"       json:"match,omitempty"`
	Column      string   `yaml:"column,omitempty"      json:"column,omitempty"`
	Styles      []string `yaml:"styles,omitempty"      json:"styles,omitempty"`
}

// ProfilesResult is the output of `profiles list`.
type ProfilesResult struct {
	Source   string           `yaml:"source,omitempty" json:"source,omitempty"`
	Profiles []ProfileSummary `yaml:"profiles"         json:"profiles"`
}

// Text implements output.Texter.
func (r ProfilesResult) Text() string {
	var b strings.Builder
	for _, p := range r.Profiles {
		fmt.Fprintf(&b, "%-12s %s\n", p.Name, p.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List and inspect site profiles",
	Long: `Profiles describe where the order table lives on a seller site and which
stylesheets to install. Built-in profiles can be overridden or extended in
the profiles file (see --config).`,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfilesList,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print one profile in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesShow,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesListCmd, profilesShowCmd)
}

func loadConfig() (*config.Config, error) {
	path, _ := rootCmd.PersistentFlags().GetString("config")
	return config.Load(path)
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return output.Print(listProfiles(cfg))
}

func listProfiles(cfg *config.Config) ProfilesResult {
	res := ProfilesResult{Source: cfg.Source, Profiles: []ProfileSummary{}}
	for _, p := range cfg.Profiles {
		s := ProfileSummary{Name: p.Name, Description: p.Description, Match: p.Match}
		if p.HasTable() {
			s.Column = p.Layout.Column.String()
		}
		for _, g := range p.Styles {
			s.Styles = append(s.Styles, g.Name)
		}
		res.Profiles = append(res.Profiles, s)
	}
	return res
}

func runProfilesShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := cfg.Find(args[0])
	if err != nil {
		return err
	}
	return output.Print(p)
}
