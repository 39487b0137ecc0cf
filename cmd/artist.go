package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aquafemi/libi/internal/links"
	"github.com/aquafemi/libi/internal/stats"
	"github.com/spf13/cobra"
)

// artistCmd represents the artist command
var artistCmd = &cobra.Command{
	Use:   "artist <name>",
	Short: "Show an artist's details and the user's plays of them",
	Long: `Show an artist's Last.fm profile supplemented with MusicBrainz data,
the user's play count and earnings for the artist, and the user's most
played tracks by them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withDeps(runArtist),
}

func init() {
	rootCmd.AddCommand(artistCmd)
}

func runArtist(cmd *cobra.Command, args []string, d *deps) error {
	user, err := d.user()
	if err != nil {
		return err
	}
	svc, err := d.stats()
	if err != nil {
		return err
	}

	name := strings.Join(args, " ")
	detail, err := svc.ArtistDetail(cmd.Context(), user, name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(out, detail)
	}
	printArtistDetail(out, user, detail)
	return nil
}

func printArtistDetail(out io.Writer, user string, a *stats.ArtistDetail) {
	fmt.Fprintf(out, "%s\n", a.Name)
	if mb := a.MusicBrainz; mb != nil {
		var facts []string
		for _, f := range []string{mb.Type, mb.Country, years(mb.BeginYear, mb.EndYear), mb.Disambiguation} {
			if f != "" {
				facts = append(facts, f)
			}
		}
		if len(facts) > 0 {
			fmt.Fprintf(out, "%s\n", strings.Join(facts, " · "))
		}
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Genre:      %s\n", a.Genre)
	if len(a.Tags) > 0 {
		fmt.Fprintf(out, "Tags:       %s\n", strings.Join(a.Tags, ", "))
	}
	fmt.Fprintf(out, "Listeners:  %s\n", count(a.Listeners))
	fmt.Fprintf(out, "Plays:      %s (all listeners)\n", count(a.GlobalPlays))
	fmt.Fprintf(out, "%-11s %s plays, %s earned\n", user+":", count(a.PlayCount), dollars(a.Earnings))
	if a.OnTour {
		fmt.Fprintln(out, "On tour")
	}
	if a.Summary != "" {
		fmt.Fprintf(out, "\n%s\n", a.Summary)
	}

	if len(a.TopTracks) > 0 {
		fmt.Fprintf(out, "\nTop tracks\n")
		tbl := newTable(out,
			column{Title: "#", Width: 3, Right: true},
			column{Title: "Track", Width: 36},
			column{Title: "Plays", Width: 8, Right: true},
			column{Title: "Earned"},
		)
		tbl.header()
		for _, t := range a.TopTracks {
			tbl.row(strconv.Itoa(t.Rank), t.Name, count(t.PlayCount), dollars(t.Earnings))
		}
	}

	if len(a.Similar) > 0 {
		fmt.Fprintf(out, "\nSimilar: %s\n", strings.Join(a.Similar, ", "))
	}

	fmt.Fprintln(out)
	printLinks(out, "Listen", a.StreamingLinks)
	printLinks(out, "Buy", a.PurchaseLinks)
	if mb := a.MusicBrainz; mb != nil {
		for _, r := range mb.Relations.Links() {
			fmt.Fprintf(out, "%-14s %s\n", r.Type, r.URL)
		}
	}
}

func printLinks(out io.Writer, label string, ls []links.Link) {
	for _, l := range ls {
		fmt.Fprintf(out, "%-14s %s\n", label+" ("+string(l.Service)+")", l.URL)
	}
}

func years(begin, end string) string {
	switch {
	case begin == "" && end == "":
		return ""
	case end == "":
		return begin + "–"
	default:
		return begin + "–" + end
	}
}
