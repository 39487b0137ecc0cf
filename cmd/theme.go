package cmd

import (
	"fmt"

	"github.com/aquafemi/libi/internal/session"
	"github.com/spf13/cobra"
)

// themeCmd represents the theme command
var themeCmd = &cobra.Command{
	Use:       "theme [dark|light|toggle]",
	Short:     "Show or change the browse theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(session.ThemeDark), string(session.ThemeLight), "toggle"},
	RunE:      withDeps(runTheme),
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string, d *deps) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		fmt.Fprintln(out, d.session.Theme())
		return nil
	}

	if args[0] == "toggle" {
		theme, err := d.session.ToggleTheme(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to toggle theme: %w", err)
		}
		fmt.Fprintf(out, "✓ Theme set to %s\n", theme)
		return nil
	}

	theme, err := session.ParseTheme(args[0])
	if err != nil {
		return err
	}
	if err := d.session.SetTheme(cmd.Context(), theme); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	fmt.Fprintf(out, "✓ Theme set to %s\n", theme)
	return nil
}
