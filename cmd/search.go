package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search Last.fm for artists",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withDeps(runSearch),
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntP("limit", "l", 10, "Number of results")
}

func runSearch(cmd *cobra.Command, args []string, d *deps) error {
	svc, err := d.stats()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	limit, _ := cmd.Flags().GetInt("limit")
	results, err := svc.Search(cmd.Context(), query, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(out, results)
	}
	if len(results) == 0 {
		fmt.Fprintf(out, "No artists match %q\n", query)
		return nil
	}

	tbl := newTable(out,
		column{Title: "Artist", Width: 36},
		column{Title: "Listeners", Width: 12, Right: true},
		column{Title: "URL"},
	)
	tbl.header()
	for _, r := range results {
		tbl.row(r.Name, count(r.Listeners), r.URL)
	}
	return nil
}
