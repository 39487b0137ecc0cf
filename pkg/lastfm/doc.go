// Package lastfm provides a client library for the Last.fm API 2.0.
//
// # Overview
//
// This package implements a Go client for the read-only parts of the
// Last.fm API: a user's listening history and charts, plus artist, track
// and album metadata. Responses use the JSON format and are decoded into
// plain Go types, absorbing the quirks of Last.fm's JSON (numbers sent as
// strings, "#text" wrappers, single-element lists sent as bare objects).
//
// # Quick Start
//
//	import "github.com/aquafemi/libi/pkg/lastfm"
//
//	client, err := lastfm.NewClient(lastfm.Config{
//	    APIKey: "your-api-key",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tracks, err := client.User().RecentTracks(ctx, "rj", 50)
//
// # Listening History
//
//	// Most recent plays, newest first
//	tracks, err := client.User().RecentTracks(ctx, "rj", 50)
//
//	// Charts over a period
//	artists, err := client.User().TopArtists(ctx, "rj", lastfm.Period7Day, 10)
//	top, err := client.User().TopTracks(ctx, "rj", lastfm.PeriodOverall, 10)
//
// # Metadata
//
//	info, err := client.Artist().Info(ctx, "Cher", "rj")
//	similar, err := client.Artist().Similar(ctx, "Cher", 3)
//	matches, err := client.Artist().Search(ctx, "che", 10)
//	track, err := client.Track().Info(ctx, "Cher", "Believe", "rj")
//	album, err := client.Album().Info(ctx, "Cher", "Believe")
//
// Passing a username to the info methods adds the user's play count.
//
// # Error Handling
//
// The package provides structured errors with retry information:
//
//	_, err := client.Artist().Info(ctx, "Cher", "")
//	if err != nil {
//	    var lastfmErr *lastfm.Error
//	    if errors.As(err, &lastfmErr) {
//	        if lastfmErr.Temporary() {
//	            // Retry the request
//	        }
//	    }
//	    if errors.Is(err, lastfm.ErrNotFound) {
//	        // Unknown artist
//	    }
//	}
//
// # Retries
//
// By default each call is made exactly once. Set Config.Retries, or derive
// a client with WithRetries, to retry network errors, 5xx responses and
// temporary API errors with exponential backoff:
//
//	resilient := client.WithRetries(2)
//	tracks, err := resilient.User().RecentTracks(ctx, "rj", 50)
//
// # Context Support
//
// All API methods accept a context.Context for cancellation and timeouts:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	info, err := client.Track().Info(ctx, "Cher", "Believe", "")
//
// # Configuration
//
// The client can be configured with custom HTTP clients, base URLs (for testing),
// and optional loggers:
//
//	client, err := lastfm.NewClient(lastfm.Config{
//	    APIKey:     "your-api-key",
//	    HTTPClient: &http.Client{Timeout: 30 * time.Second},
//	    UserAgent:  "myapp/1.0",
//	    Logger:     myLogger, // Implements lastfm.Logger interface
//	})
//
// # API Coverage
//
// Currently implemented:
//   - User (user.getRecentTracks, user.getTopArtists, user.getTopTracks)
//   - Artist (artist.getInfo, artist.getSimilar, artist.search, artist.getTopTracks)
//   - Track (track.getInfo)
//   - Album (album.getInfo)
//
// # Last.fm API Documentation
//
// For more information about the Last.fm API:
// https://www.last.fm/api
package lastfm
