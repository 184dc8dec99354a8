package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/seller-cli/internal/config"
	"github.com/mj1618/seller-cli/internal/output"
	"github.com/mj1618/seller-cli/internal/style"
)

// StyleResult is the output of `style apply` and `style remove`.
type StyleResult struct {
	OK      bool     `yaml:"ok"                json:"ok"`
	Action  string   `yaml:"action"            json:"action"`
	Profile string   `yaml:"profile"           json:"profile"`
	Groups  []string `yaml:"groups,omitempty"  json:"groups,omitempty"`
}

// Text implements output.Texter.
func (r StyleResult) Text() string {
	return fmt.Sprintf("%s: %d style group(s) for %s %v", r.Action, len(r.Groups), r.Profile, r.Groups)
}

var styleCmd = &cobra.Command{
	Use:   "style",
	Short: "Render, install, or remove the profile's stylesheets",
	Long: `Each profile carries named style groups. Groups can be switched on or off for
one call with --enable and --disable.`,
}

var styleRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the CSS of the enabled groups",
	Args:  cobra.NoArgs,
	RunE:  runStyleRender,
}

var styleApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Install the enabled groups on the page and remove the disabled ones",
	Args:  cobra.NoArgs,
	RunE:  runStyleApply,
}

var styleRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove every group of the profile from the page",
	Args:  cobra.NoArgs,
	RunE:  runStyleRemove,
}

func init() {
	rootCmd.AddCommand(styleCmd)
	styleCmd.AddCommand(styleRenderCmd, styleApplyCmd, styleRemoveCmd)
	for _, c := range []*cobra.Command{styleRenderCmd, styleApplyCmd} {
		c.Flags().StringSlice("enable", nil, "Style groups to switch on")
		c.Flags().StringSlice("disable", nil, "Style groups to switch off")
	}
}

// toggledSheet applies --enable/--disable to the profile's sheet.
func toggledSheet(sheet style.Sheet, enable, disable []string) (style.Sheet, error) {
	var err error
	for _, name := range enable {
		if sheet, err = sheet.Toggle(name, true); err != nil {
			return nil, err
		}
	}
	for _, name := range disable {
		if sheet, err = sheet.Toggle(name, false); err != nil {
			return nil, err
		}
	}
	return sheet, nil
}

func sheetFromFlags(cmd *cobra.Command, p config.Profile) (style.Sheet, error) {
	enable, _ := cmd.Flags().GetStringSlice("enable")
	disable, _ := cmd.Flags().GetStringSlice("disable")
	return toggledSheet(p.Styles, enable, disable)
}

func runStyleRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	name, _ := rootCmd.PersistentFlags().GetString("profile")
	if name == "" {
		name = config.DefaultProfile
	}
	p, err := cfg.Find(name)
	if err != nil {
		return err
	}
	sheet, err := sheetFromFlags(cmd, p)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), sheet.Render())
	return err
}

func runStyleApply(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context(), pageOptionsFromFlags())
	if err != nil {
		return err
	}
	defer sess.Close()

	sheet, err := sheetFromFlags(cmd, sess.Profile)
	if err != nil {
		return err
	}
	res, err := applyStyles(cmd.Context(), sess, sheet)
	if err != nil {
		return err
	}
	return output.Print(res)
}

func applyStyles(ctx context.Context, sess *session, sheet style.Sheet) (StyleResult, error) {
	if sess.Provider.Styles == nil {
		return StyleResult{}, fmt.Errorf("stylesheets are not supported by this backend")
	}
	applied, err := style.Apply(ctx, sess.Provider.Styles, sheet)
	if err != nil {
		return StyleResult{}, err
	}
	return StyleResult{OK: true, Action: "style-apply", Profile: sess.Profile.Name, Groups: applied}, nil
}

func runStyleRemove(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context(), pageOptionsFromFlags())
	if err != nil {
		return err
	}
	defer sess.Close()

	res, err := removeStyles(cmd.Context(), sess)
	if err != nil {
		return err
	}
	return output.Print(res)
}

func removeStyles(ctx context.Context, sess *session) (StyleResult, error) {
	if sess.Provider.Styles == nil {
		return StyleResult{}, fmt.Errorf("stylesheets are not supported by this backend")
	}
	if err := style.Remove(ctx, sess.Provider.Styles, sess.Profile.Styles); err != nil {
		return StyleResult{}, err
	}
	var names []string
	for _, g := range sess.Profile.Styles {
		names = append(names, g.Name)
	}
	return StyleResult{OK: true, Action: "style-remove", Profile: sess.Profile.Name, Groups: names}, nil
}
