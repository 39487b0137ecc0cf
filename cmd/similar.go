package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// similarCmd represents the similar command
var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Recommend artists similar to the user's favourites",
	Long: `Recommend artists similar to the user's five most played artists.
Artists the user already listens to most are left out, and each
recommendation names the favourite it came from.`,
	Args: cobra.NoArgs,
	RunE: withDeps(runSimilar),
}

func init() {
	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string, d *deps) error {
	user, err := d.user()
	if err != nil {
		return err
	}
	svc, err := d.stats()
	if err != nil {
		return err
	}

	recs, err := svc.Recommendations(cmd.Context(), user)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(out, recs)
	}
	if len(recs) == 0 {
		fmt.Fprintf(out, "No recommendations for %s\n", user)
		return nil
	}

	fmt.Fprintf(out, "Recommended for %s\n\n", user)
	tbl := newTable(out,
		column{Title: "Artist", Width: 30},
		column{Title: "Match", Width: 6, Right: true},
		column{Title: "Because you listen to"},
	)
	tbl.header()
	for _, r := range recs {
		tbl.row(r.Name, strconv.Itoa(int(r.Match*100+0.5))+"%", r.Because)
	}
	return nil
}
