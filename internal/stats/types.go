package stats

import (
	"github.com/aquafemi/libi/internal/links"
	"github.com/aquafemi/libi/internal/musicbrainz"
)

// Artist is a ranked top artist.
type Artist struct {
	Rank        int                 `json:"rank"`
	Name        string              `json:"name"`
	MBID        string              `json:"mbid,omitempty"`
	URL         string              `json:"url,omitempty"`
	PlayCount   int                 `json:"play_count"`
	Earnings    string              `json:"earnings"`
	Genre       string              `json:"genre"`
	Tags        []string            `json:"tags,omitempty"`
	Image       string              `json:"image,omitempty"`
	MusicBrainz *musicbrainz.Artist `json:"musicbrainz,omitempty"`

	StreamingLinks []links.Link `json:"streaming_links"`
	PurchaseLinks  []links.Link `json:"purchase_links"`
}

// Track is a ranked track with the user's play count.
type Track struct {
	Rank      int    `json:"rank"`
	Name      string `json:"name"`
	Artist    string `json:"artist"`
	URL       string `json:"url,omitempty"`
	PlayCount int    `json:"play_count"`
	Earnings  string `json:"earnings"`
	Image     string `json:"image,omitempty"`

	StreamingLinks []links.Link `json:"streaming_links"`
	PurchaseLinks  []links.Link `json:"purchase_links"`
}

// ArtistDetail is everything known about one artist for one user.
// PlayCount and Earnings are the user's; GlobalPlays is Last.fm-wide.
type ArtistDetail struct {
	Name        string              `json:"name"`
	MBID        string              `json:"mbid,omitempty"`
	URL         string              `json:"url,omitempty"`
	Summary     string              `json:"summary,omitempty"`
	Image       string              `json:"image,omitempty"`
	Genre       string              `json:"genre"`
	Tags        []string            `json:"tags,omitempty"`
	Listeners   int                 `json:"listeners"`
	GlobalPlays int                 `json:"global_plays"`
	PlayCount   int                 `json:"play_count"`
	Earnings    string              `json:"earnings"`
	OnTour      bool                `json:"on_tour"`
	Similar     []string            `json:"similar,omitempty"`
	MusicBrainz *musicbrainz.Artist `json:"musicbrainz,omitempty"`
	TopTracks   []Track             `json:"top_tracks"`

	StreamingLinks []links.Link `json:"streaming_links"`
	PurchaseLinks  []links.Link `json:"purchase_links"`
}

// Recommendation is an artist similar to one of the user's top artists.
type Recommendation struct {
	Name    string  `json:"name"`
	MBID    string  `json:"mbid,omitempty"`
	URL     string  `json:"url,omitempty"`
	Match   float64 `json:"match"`
	Because string  `json:"because"`
	Image   string  `json:"image,omitempty"`

	PurchaseLinks []links.Link `json:"purchase_links"`
}

// SearchResult is an artist search match.
type SearchResult struct {
	Name      string `json:"name"`
	MBID      string `json:"mbid,omitempty"`
	URL       string `json:"url,omitempty"`
	Listeners int    `json:"listeners"`
	Image     string `json:"image,omitempty"`

	StreamingLinks []links.Link `json:"streaming_links"`
}

// AlbumDetail is an album's track listing with the user's plays of each
// track. PlayCount and Earnings sum the tracks.
type AlbumDetail struct {
	Name        string   `json:"name"`
	Artist      string   `json:"artist"`
	MBID        string   `json:"mbid,omitempty"`
	URL         string   `json:"url,omitempty"`
	Image       string   `json:"image,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Listeners   int      `json:"listeners"`
	GlobalPlays int      `json:"global_plays"`
	PlayCount   int      `json:"play_count"`
	Earnings    string   `json:"earnings"`
	Tracks      []Track  `json:"tracks"`

	StreamingLinks []links.Link `json:"streaming_links"`
	PurchaseLinks  []links.Link `json:"purchase_links"`
}
