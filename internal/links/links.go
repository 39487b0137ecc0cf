// Package links builds storefront search URLs for tracks and artists.
package links

import (
	"net/url"
	"strings"
)

// Service names a storefront.
type Service string

const (
	Spotify      Service = "Spotify"
	AppleMusic   Service = "Apple Music"
	YouTubeMusic Service = "YouTube Music"
	AmazonMusic  Service = "Amazon Music"
	Amazon       Service = "Amazon"
	Bandcamp     Service = "Bandcamp"
	ITunes       Service = "iTunes"
)

// Link is an outbound storefront link.
type Link struct {
	Service Service `json:"service"`
	URL     string  `json:"url"`
	Color   string  `json:"color,omitempty"`
}

type template struct {
	format string // {q} is replaced by the escaped search term
	color  string
}

var templates = map[Service]template{
	Spotify:      {format: "https://open.spotify.com/search/{q}", color: "#1DB954"},
	AppleMusic:   {format: "https://music.apple.com/search?term={q}", color: "#fa243c"},
	YouTubeMusic: {format: "https://music.youtube.com/search?q={q}", color: "#ff0000"},
	AmazonMusic:  {format: "https://music.amazon.com/search/{q}", color: "#00A8E1"},
	Amazon:       {format: "https://www.amazon.com/s?k={q}&i=digital-music", color: "#ff9900"},
	Bandcamp:     {format: "https://bandcamp.com/search?q={q}", color: "#629aa9"},
	ITunes:       {format: "https://music.apple.com/search?term={q}", color: "#fa243c"},
}

var (
	streaming = []Service{Spotify, AppleMusic, YouTubeMusic, AmazonMusic}
	purchase  = []Service{Amazon}
	discovery = []Service{Bandcamp, ITunes}
)

// unreserved undoes QueryEscape for the characters URI components may
// carry literally, and writes spaces as %20.
var unreserved = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// Escape encodes term for use in both paths and query strings.
func Escape(term string) string {
	return unreserved.Replace(url.QueryEscape(term))
}

// For returns the link to service's search page for term.
func For(service Service, term string) (Link, bool) {
	tpl, ok := templates[service]
	if !ok {
		return Link{}, false
	}
	return Link{
		Service: service,
		URL:     strings.Replace(tpl.format, "{q}", Escape(term), 1),
		Color:   tpl.color,
	}, true
}

func build(services []Service, term string) []Link {
	out := make([]Link, 0, len(services))
	for _, s := range services {
		if l, ok := For(s, term); ok {
			out = append(out, l)
		}
	}
	return out
}

// TrackTerm is the search term used for a track.
func TrackTerm(track, artist string) string {
	return track + " " + artist
}

// TrackStreaming returns streaming links for a track.
func TrackStreaming(track, artist string) []Link {
	return build(streaming, TrackTerm(track, artist))
}

// TrackPurchase returns purchase links for a track.
func TrackPurchase(track, artist string) []Link {
	return build(purchase, TrackTerm(track, artist))
}

// ArtistStreaming returns streaming links for an artist.
func ArtistStreaming(artist string) []Link {
	return build(streaming, artist)
}

// ArtistPurchase returns purchase links for an artist. The term is
// narrowed to music.
func ArtistPurchase(artist string) []Link {
	return build(purchase, artist+" music")
}

// Discovery returns the links offered with a recommended artist.
func Discovery(artist string) []Link {
	return build(discovery, artist)
}

// ParseService resolves a service by case-insensitive name, ignoring
// spaces, so "applemusic" and "Apple Music" both match.
func ParseService(name string) (Service, bool) {
	key := normalize(name)
	for s := range templates {
		if normalize(string(s)) == key {
			return s, true
		}
	}
	return "", false
}

// Services lists every known service in display order.
func Services() []Service {
	out := make([]Service, 0, len(templates))
	out = append(out, streaming...)
	out = append(out, purchase...)
	out = append(out, discovery...)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}
