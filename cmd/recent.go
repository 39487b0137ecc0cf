package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aquafemi/libi/internal/activity"
	"github.com/aquafemi/libi/internal/pager"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// recentCmd represents the recent command
var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recent plays with play counts and earnings",
	Long: `Fetch the user's most recent plays from Last.fm and show, for each one,
how many times the user has played the track and the artist, with the
illustrative earnings of those plays.

By default every play is listed. With --mode artist each artist appears
once, represented by their most recent play.

The output can be customized with a Go template via --format. Available
fields: .Name, .Artist, .Album, .URL, .PlayedAt, .NowPlaying,
.TrackPlayCount, .TrackEarnings, .ArtistPlayCount, .ArtistEarnings, .Genre`,
	RunE: withDeps(runRecent),
}

func init() {
	rootCmd.AddCommand(recentCmd)

	recentCmd.Flags().StringP("mode", "m", "", "List mode: play or artist (overrides config)")
	recentCmd.Flags().IntP("limit", "l", 0, "Number of plays to fetch, up to 200 (overrides config)")
	recentCmd.Flags().IntP("page", "p", 1, "Page to show (0 shows every item)")
	recentCmd.Flags().Int("page-size", 0, "Items per page (overrides config)")
	recentCmd.Flags().StringP("format", "f", "", "Output format template, one line per item")
}

func runRecent(cmd *cobra.Command, args []string, d *deps) error {
	user, err := d.user()
	if err != nil {
		return err
	}

	page, _ := cmd.Flags().GetInt("page")
	if err := checkPage(page); err != nil {
		return err
	}

	mode, _ := cmd.Flags().GetString("mode")
	recentCfg, err := d.recentConfig(mode)
	if err != nil {
		return err
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		recentCfg.Limit = limit
	}

	source, err := d.source()
	if err != nil {
		return err
	}

	agg := activity.NewAggregator(source, activity.NewFeed(), recentCfg, d.logger)
	if err := agg.Refresh(cmd.Context(), user); err != nil {
		return err
	}
	snap := agg.Feed().Snapshot()

	pageSize, _ := cmd.Flags().GetInt("page-size")
	if pageSize <= 0 {
		pageSize = d.cfg.Recent.PageSize
	}
	if pageSize <= 0 {
		pageSize = pager.DefaultPageSize
	}

	items := snap.Items
	totalPages := pager.TotalPages(len(items), pageSize)
	if page > 0 {
		if page > totalPages {
			page = totalPages
		}
		items = pager.Slice(snap.Items, page-1, pageSize)
	}
	if items == nil {
		items = []activity.Item{}
	}

	out := cmd.OutOrStdout()

	if flagJSON {
		return writeJSON(out, struct {
			User        string          `json:"user"`
			Mode        activity.Mode   `json:"mode"`
			Page        int             `json:"page"`
			TotalPages  int             `json:"total_pages"`
			TotalItems  int             `json:"total_items"`
			ArtistTotal string          `json:"artist_total"`
			Items       []activity.Item `json:"items"`
		}{user, agg.Mode(), page, totalPages, len(snap.Items), activity.ArtistTotal(snap.Items), items})
	}

	if format, _ := cmd.Flags().GetString("format"); format != "" {
		for _, it := range items {
			line, err := formatTemplate(it, format)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			fmt.Fprintln(out, line)
		}
		return nil
	}

	if len(snap.Items) == 0 {
		fmt.Fprintf(out, "No recent plays for %s\n", user)
		return nil
	}

	if page > 0 {
		fmt.Fprintf(out, "Recent plays for %s (page %d of %d, %d items)\n\n", user, page, totalPages, len(snap.Items))
	} else {
		fmt.Fprintf(out, "Recent plays for %s (%d items)\n\n", user, len(snap.Items))
	}
	first := 1
	if page > 0 {
		first = (page-1)*pageSize + 1
	}
	printItems(out, items, first, time.Now())
	fmt.Fprintf(out, "\nArtist earnings: %s\n", activity.ArtistTotal(snap.Items))
	return nil
}

func printItems(w io.Writer, items []activity.Item, first int, now time.Time) {
	tbl := newTable(w,
		column{Title: "#", Width: 3, Right: true},
		column{Title: "Track", Width: 28},
		column{Title: "Artist", Width: 20},
		column{Title: "Plays", Width: 6, Right: true},
		column{Title: "Earned", Width: 9, Right: true},
		column{Title: "Artist plays", Width: 12, Right: true},
		column{Title: "Artist earned", Width: 13, Right: true},
		column{Title: "Played"},
	)
	tbl.header()
	for i, it := range items {
		tbl.row(
			strconv.Itoa(first+i),
			it.Name,
			it.Artist,
			count(it.TrackPlayCount),
			dollars(it.TrackEarnings),
			count(it.ArtistPlayCount),
			dollars(it.ArtistEarnings),
			playedAt(it, now),
		)
	}
}

func playedAt(it activity.Item, now time.Time) string {
	switch {
	case it.NowPlaying:
		return "now playing"
	case it.PlayedAt != nil:
		return humanize.RelTime(*it.PlayedAt, now, "ago", "from now")
	default:
		return ""
	}
}

// checkPage rejects negative --page values. Zero means every page.
func checkPage(page int) error {
	if page < 0 {
		return fmt.Errorf("invalid page %d: must be 0 or greater", page)
	}
	return nil
}
