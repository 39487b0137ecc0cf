package cmd

import (
	"fmt"
	"strconv"

	"github.com/aquafemi/libi/internal/earnings"
	"github.com/spf13/cobra"
)

// earningsCmd represents the earnings command
var earningsCmd = &cobra.Command{
	Use:   "earnings <plays>...",
	Short: "Estimate the earnings of play counts",
	Long: fmt.Sprintf(`Estimate what the given play counts earned at the illustrative flat
rate of $%.3f per play, and their total.

These figures are not real royalties.`, earnings.StreamRate),
	Args: cobra.MinimumNArgs(1),
	RunE: runEarnings,
}

func init() {
	rootCmd.AddCommand(earningsCmd)
}

func runEarnings(cmd *cobra.Command, args []string) error {
	counts := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid play count %q: %w", arg, err)
		}
		counts[i] = n
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		type estimate struct {
			Plays    int    `json:"plays"`
			Earnings string `json:"earnings"`
		}
		estimates := make([]estimate, len(counts))
		for i, n := range counts {
			estimates[i] = estimate{Plays: n, Earnings: earnings.Estimate(n)}
		}
		return writeJSON(out, struct {
			Estimates []estimate `json:"estimates"`
			Total     string     `json:"total"`
		}{estimates, earnings.Total(counts...)})
	}

	tbl := newTable(out,
		column{Title: "Plays", Width: 12, Right: true},
		column{Title: "Earned", Width: 12, Right: true},
	)
	tbl.header()
	for _, n := range counts {
		tbl.row(count(n), dollars(earnings.Estimate(n)))
	}
	fmt.Fprintf(out, "\nTotal: %s\n", earnings.Total(counts...))
	return nil
}
