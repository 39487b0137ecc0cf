package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// albumCmd represents the album command
var albumCmd = &cobra.Command{
	Use:   "album <artist> <album>",
	Short: "Show an album's tracks with the user's plays of each",
	Long: `Show an album's track listing with the user's play count and earnings
for every track, and the album totals.

Quote names that contain spaces, e.g. libi album "Sigur Rós" "Ágætis byrjun".`,
	Args: cobra.ExactArgs(2),
	RunE: withDeps(runAlbum),
}

func init() {
	rootCmd.AddCommand(albumCmd)
}

func runAlbum(cmd *cobra.Command, args []string, d *deps) error {
	user, err := d.user()
	if err != nil {
		return err
	}
	svc, err := d.stats()
	if err != nil {
		return err
	}

	album, err := svc.Album(cmd.Context(), user, args[0], args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(out, album)
	}

	fmt.Fprintf(out, "%s by %s\n", album.Name, album.Artist)
	if len(album.Tags) > 0 {
		fmt.Fprintf(out, "%s\n", strings.Join(album.Tags, ", "))
	}
	fmt.Fprintf(out, "%s listeners, %s plays\n\n", count(album.Listeners), count(album.GlobalPlays))

	tbl := newTable(out,
		column{Title: "#", Width: 3, Right: true},
		column{Title: "Track", Width: 36},
		column{Title: "Plays", Width: 8, Right: true},
		column{Title: "Earned"},
	)
	tbl.header()
	for _, t := range album.Tracks {
		tbl.row(strconv.Itoa(t.Rank), t.Name, count(t.PlayCount), dollars(t.Earnings))
	}
	fmt.Fprintf(out, "\n%s: %s plays, %s earned\n\n", user, count(album.PlayCount), dollars(album.Earnings))

	printLinks(out, "Listen", album.StreamingLinks)
	printLinks(out, "Buy", album.PurchaseLinks)
	return nil
}
