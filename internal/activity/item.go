package activity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aquafemi/libi/internal/earnings"
	"github.com/aquafemi/libi/internal/links"
	"github.com/aquafemi/libi/pkg/lastfm"
)

// DefaultGenre is used when an artist has no tags.
const DefaultGenre = "Music"

// Mode selects how plays map to items.
type Mode string

const (
	// ModePerPlay yields one item per play.
	ModePerPlay Mode = "play"
	// ModePerArtist yields one item per artist, represented by the
	// artist's most recent play.
	ModePerArtist Mode = "artist"
)

// ParseMode validates s. An empty string selects ModePerPlay.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModePerPlay:
		return ModePerPlay, nil
	case ModePerArtist:
		return ModePerArtist, nil
	default:
		return "", fmt.Errorf("invalid mode %q (want %q or %q)", s, ModePerPlay, ModePerArtist)
	}
}

// Item is a recent play with the listener's play counts and storefront
// links. Counts and earnings start at their zero values and are filled in
// place as lookups resolve.
type Item struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Artist     string     `json:"artist"`
	Album      string     `json:"album,omitempty"`
	URL        string     `json:"url,omitempty"`
	ArtistMBID string     `json:"artist_mbid,omitempty"`
	PlayedAt   *time.Time `json:"played_at,omitempty"`
	NowPlaying bool       `json:"now_playing"`
	Image      string     `json:"image,omitempty"`

	TrackPlayCount  int    `json:"track_play_count"`
	TrackEarnings   string `json:"track_earnings"`
	ArtistPlayCount int    `json:"artist_play_count"`
	ArtistEarnings  string `json:"artist_earnings"`
	Genre           string `json:"genre,omitempty"`

	StreamingLinks []links.Link `json:"streaming_links"`
	PurchaseLinks  []links.Link `json:"purchase_links"`
}

// BuildItems converts recent plays into items, preserving upstream order.
// Plays without a track or artist name are skipped. In ModePerArtist only
// the first (most recent) play of each artist, compared case-insensitively,
// is kept.
func BuildItems(tracks []lastfm.RecentTrack, mode Mode) []Item {
	items := make([]Item, 0, len(tracks))
	seen := make(map[string]struct{})

	for i, t := range tracks {
		name := strings.TrimSpace(t.Name)
		artist := strings.TrimSpace(t.Artist)
		if name == "" || artist == "" {
			continue
		}

		if mode == ModePerArtist {
			key := strings.ToLower(artist)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}

		items = append(items, Item{
			ID:             name + "-" + artist + "-" + strconv.Itoa(i),
			Name:           name,
			Artist:         artist,
			Album:          t.Album,
			URL:            t.URL,
			ArtistMBID:     t.ArtistMBID,
			PlayedAt:       t.PlayedAt,
			NowPlaying:     t.NowPlaying,
			Image:          lastfm.BestImage(t.Images),
			TrackEarnings:  earnings.Zero,
			ArtistEarnings: earnings.Zero,
			StreamingLinks: links.TrackStreaming(name, artist),
			PurchaseLinks:  links.TrackPurchase(name, artist),
		})
	}
	return items
}

// ArtistTotal returns the dollar estimate for the distinct artists in
// items, counting each artist's play count once.
func ArtistTotal(items []Item) string {
	seen := make(map[string]struct{}, len(items))
	counts := make([]int, 0, len(items))
	for _, it := range items {
		key := strings.ToLower(it.Artist)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		counts = append(counts, it.ArtistPlayCount)
	}
	return earnings.Total(counts...)
}
