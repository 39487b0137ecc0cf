package lastfm

import (
	"fmt"
	"time"
)

// Image is a size-tagged image URL.
type Image struct {
	Size string // small, medium, large, extralarge, mega
	URL  string
}

// Tag is a Last.fm folksonomy tag.
type Tag struct {
	Name string
	URL  string
}

// RecentTrack is a single play from user.getRecentTracks.
type RecentTrack struct {
	Name       string
	Artist     string
	ArtistMBID string
	Album      string
	MBID       string
	URL        string
	PlayedAt   *time.Time // nil while the track is playing
	NowPlaying bool
	Images     []Image
}

// TopArtist is an entry of user.getTopArtists.
type TopArtist struct {
	Rank      int
	Name      string
	MBID      string
	URL       string
	PlayCount int
	Images    []Image
}

// TopTrack is an entry of user.getTopTracks or artist.getTopTracks.
type TopTrack struct {
	Rank       int
	Name       string
	MBID       string
	URL        string
	Artist     string
	ArtistMBID string
	PlayCount  int
	Listeners  int
	Duration   time.Duration
	Images     []Image
}

// ArtistInfo is the response of artist.getInfo.
//
// UserPlayCount is only populated when the request names a user.
type ArtistInfo struct {
	Name          string
	MBID          string
	URL           string
	Images        []Image
	Listeners     int
	PlayCount     int
	UserPlayCount int
	OnTour        bool
	Tags          []Tag
	Similar       []SimilarArtist
	Summary       string
}

// TrackInfo is the response of track.getInfo.
type TrackInfo struct {
	Name          string
	MBID          string
	URL           string
	Artist        string
	Album         string
	Duration      time.Duration
	Listeners     int
	PlayCount     int
	UserPlayCount int
	UserLoved     bool
	Tags          []Tag
	Images        []Image
}

// AlbumInfo is the response of album.getInfo.
type AlbumInfo struct {
	Name      string
	Artist    string
	MBID      string
	URL       string
	Listeners int
	PlayCount int
	Images    []Image
	Tags      []Tag
	Tracks    []AlbumTrack
}

// AlbumTrack is a track listed on an album.
type AlbumTrack struct {
	Rank     int
	Name     string
	URL      string
	Duration time.Duration
}

// SimilarArtist is an entry of artist.getSimilar.
type SimilarArtist struct {
	Name   string
	MBID   string
	URL    string
	Match  float64
	Images []Image
}

// ArtistMatch is an entry of artist.search.
type ArtistMatch struct {
	Name      string
	MBID      string
	URL       string
	Listeners int
	Images    []Image
}

// Period is a time range accepted by the user.getTop* methods.
type Period string

// Periods accepted by Last.fm.
const (
	PeriodOverall  Period = "overall"
	Period7Day     Period = "7day"
	Period1Month   Period = "1month"
	Period3Month   Period = "3month"
	Period6Month   Period = "6month"
	Period12Month  Period = "12month"
	DefaultPeriod         = PeriodOverall
	MaxRecentLimit        = 200
)

// Periods lists every accepted period in display order.
var Periods = []Period{PeriodOverall, Period7Day, Period1Month, Period3Month, Period6Month, Period12Month}

// ParsePeriod validates s. An empty string yields DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return DefaultPeriod, nil
	}
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
}
