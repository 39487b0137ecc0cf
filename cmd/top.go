package cmd

import (
	"fmt"
	"strconv"

	"github.com/aquafemi/libi/pkg/lastfm"
	"github.com/spf13/cobra"
)

// topCmd groups the top-chart commands
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the user's top artists or tracks",
	Long: `Show the user's most played artists or tracks over a period, with the
illustrative earnings of those plays.

Periods: overall, 7day, 1month, 3month, 6month, 12month.`,
}

var topArtistsCmd = &cobra.Command{
	Use:   "artists",
	Short: "Show the user's top artists",
	RunE:  withDeps(runTopArtists),
}

var topTracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "Show the user's top tracks",
	RunE:  withDeps(runTopTracks),
}

func init() {
	rootCmd.AddCommand(topCmd)
	topCmd.AddCommand(topArtistsCmd)
	topCmd.AddCommand(topTracksCmd)

	topCmd.PersistentFlags().StringP("period", "P", string(lastfm.DefaultPeriod), "Time period")
	topCmd.PersistentFlags().IntP("limit", "l", 10, "Number of entries")
}

func topFlags(cmd *cobra.Command) (lastfm.Period, int, error) {
	p, _ := cmd.Flags().GetString("period")
	period, err := lastfm.ParsePeriod(p)
	if err != nil {
		return "", 0, err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	return period, limit, nil
}

func runTopArtists(cmd *cobra.Command, args []string, d *deps) error {
	user, err := d.user()
	if err != nil {
		return err
	}
	period, limit, err := topFlags(cmd)
	if err != nil {
		return err
	}
	svc, err := d.stats()
	if err != nil {
		return err
	}

	artists, err := svc.TopArtists(cmd.Context(), user, period, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(out, artists)
	}
	if len(artists) == 0 {
		fmt.Fprintf(out, "No top artists for %s (%s)\n", user, period)
		return nil
	}

	fmt.Fprintf(out, "Top artists for %s (%s)\n\n", user, period)
	tbl := newTable(out,
		column{Title: "#", Width: 3, Right: true},
		column{Title: "Artist", Width: 30},
		column{Title: "Plays", Width: 8, Right: true},
		column{Title: "Earned", Width: 10, Right: true},
		column{Title: "Genre"},
	)
	tbl.header()
	for _, a := range artists {
		tbl.row(strconv.Itoa(a.Rank), a.Name, count(a.PlayCount), dollars(a.Earnings), a.Genre)
	}
	return nil
}

func runTopTracks(cmd *cobra.Command, args []string, d *deps) error {
	user, err := d.user()
	if err != nil {
		return err
	}
	period, limit, err := topFlags(cmd)
	if err != nil {
		return err
	}
	svc, err := d.stats()
	if err != nil {
		return err
	}

	tracks, err := svc.TopTracks(cmd.Context(), user, period, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(out, tracks)
	}
	if len(tracks) == 0 {
		fmt.Fprintf(out, "No top tracks for %s (%s)\n", user, period)
		return nil
	}

	fmt.Fprintf(out, "Top tracks for %s (%s)\n\n", user, period)
	tbl := newTable(out,
		column{Title: "#", Width: 3, Right: true},
		column{Title: "Track", Width: 30},
		column{Title: "Artist", Width: 24},
		column{Title: "Plays", Width: 8, Right: true},
		column{Title: "Earned"},
	)
	tbl.header()
	for _, t := range tracks {
		tbl.row(strconv.Itoa(t.Rank), t.Name, t.Artist, count(t.PlayCount), dollars(t.Earnings))
	}
	return nil
}
