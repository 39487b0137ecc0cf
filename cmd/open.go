package cmd

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/aquafemi/libi/internal/links"
	"github.com/spf13/cobra"
)

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:   "open <service> <term>",
	Short: "Open a storefront search in the browser",
	Long: `Open a storefront's search page for a track or artist in the default
browser. With --print the URL is printed instead.

Quote multi-word service names, e.g. libi open "apple music" Björk.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)

	names := make([]string, 0, len(links.Services()))
	for _, s := range links.Services() {
		names = append(names, string(s))
	}
	openCmd.Long += "\n\nServices: " + strings.Join(names, ", ")

	openCmd.Flags().Bool("print", false, "Print the URL instead of opening it")
}

func runOpen(cmd *cobra.Command, args []string) error {
	service, ok := links.ParseService(args[0])
	if !ok {
		return fmt.Errorf("unknown service %q", args[0])
	}
	link, ok := links.For(service, strings.Join(args[1:], " "))
	if !ok {
		return fmt.Errorf("unknown service %q", args[0])
	}

	if printOnly, _ := cmd.Flags().GetBool("print"); printOnly {
		fmt.Fprintln(cmd.OutOrStdout(), link.URL)
		return nil
	}

	if err := browserCommand(link.URL).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Opened %s\n", link.URL)
	return nil
}

func browserCommand(url string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.Command("xdg-open", url)
	}
}
