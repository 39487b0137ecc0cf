package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Show or change the saved Last.fm user",
	Long: `Show the Last.fm user that commands use when --user is not given.
The user is kept in the local preference database.`,
	Args: cobra.NoArgs,
	RunE: withDeps(runUser),
}

var userSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Save the Last.fm user",
	Args:  cobra.ExactArgs(1),
	RunE:  withDeps(runUserSet),
}

var userClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the saved Last.fm user",
	Long: `Forget the saved Last.fm user. The theme is kept unless --all is given,
which also removes every preference and cached snapshot.`,
	Args: cobra.NoArgs,
	RunE: withDeps(runUserClear),
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userSetCmd)
	userCmd.AddCommand(userClearCmd)

	userClearCmd.Flags().Bool("all", false, "Also remove all preferences and cached snapshots")
}

func runUser(cmd *cobra.Command, args []string, d *deps) error {
	name := d.session.Username()
	if name == "" {
		return errNoUser
	}
	fmt.Fprintln(cmd.OutOrStdout(), name)
	return nil
}

func runUserSet(cmd *cobra.Command, args []string, d *deps) error {
	if err := d.session.SetUsername(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved user %s\n", d.session.Username())
	return nil
}

func runUserClear(cmd *cobra.Command, args []string, d *deps) error {
	if all, _ := cmd.Flags().GetBool("all"); all {
		if err := d.store.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear preferences: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Cleared all preferences and snapshots")
		return nil
	}

	if err := d.session.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear user: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Cleared saved user")
	return nil
}
