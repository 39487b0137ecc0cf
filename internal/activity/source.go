package activity

import (
	"context"

	"github.com/aquafemi/libi/pkg/lastfm"
)

// Source provides the Last.fm data the aggregator needs.
type Source interface {
	RecentTracks(ctx context.Context, username string, limit int) ([]lastfm.RecentTrack, error)
	TrackInfo(ctx context.Context, artist, track, username string) (*lastfm.TrackInfo, error)
	ArtistInfo(ctx context.Context, artist, username string) (*lastfm.ArtistInfo, error)
}

// LastFMSource is a Source backed by a Last.fm client. The recent-tracks
// fetch uses bounded retry; enrichment lookups are single attempts.
type LastFMSource struct {
	primary *lastfm.Client
	lookups *lastfm.Client
}

// NewLastFMSource creates a Source that retries the primary fetch up to
// fetchRetries extra times.
func NewLastFMSource(client *lastfm.Client, fetchRetries int) *LastFMSource {
	return &LastFMSource{
		primary: client.WithRetries(fetchRetries),
		lookups: client.WithRetries(0),
	}
}

func (s *LastFMSource) RecentTracks(ctx context.Context, username string, limit int) ([]lastfm.RecentTrack, error) {
	return s.primary.User().RecentTracks(ctx, username, limit)
}

func (s *LastFMSource) TrackInfo(ctx context.Context, artist, track, username string) (*lastfm.TrackInfo, error) {
	return s.lookups.Track().Info(ctx, artist, track, username)
}

func (s *LastFMSource) ArtistInfo(ctx context.Context, artist, username string) (*lastfm.ArtistInfo, error) {
	return s.lookups.Artist().Info(ctx, artist, username)
}
