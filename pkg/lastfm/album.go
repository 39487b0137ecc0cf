package lastfm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// AlbumService provides the album.* methods of the Last.fm API.
type AlbumService struct {
	client *Client
}

type albumInfoResponse struct {
	Album struct {
		Name      string     `json:"name"`
		Artist    string     `json:"artist"`
		MBID      string     `json:"mbid"`
		URL       string     `json:"url"`
		Listeners count      `json:"listeners"`
		PlayCount count      `json:"playcount"`
		Image     []rawImage `json:"image"`
		Tags      rawTags    `json:"tags"`
		Tracks    struct {
			Track list[struct {
				Name     string      `json:"name"`
				URL      string      `json:"url"`
				Duration count       `json:"duration"`
				Attr     rawRankAttr `json:"@attr"`
			}] `json:"track"`
		} `json:"tracks"`
	} `json:"album"`
}

// Info returns album metadata and its track listing.
func (s *AlbumService) Info(ctx context.Context, artist, album string) (*AlbumInfo, error) {
	if strings.TrimSpace(artist) == "" || strings.TrimSpace(album) == "" {
		return nil, fmt.Errorf("lastfm: artist and album are required")
	}
	params := map[string]string{
		"artist": artist,
		"album":  album,
	}

	var resp albumInfoResponse
	if err := s.client.get(ctx, "album.getinfo", params, &resp); err != nil {
		return nil, err
	}

	a := resp.Album
	info := &AlbumInfo{
		Name:      a.Name,
		Artist:    a.Artist,
		MBID:      a.MBID,
		URL:       a.URL,
		Listeners: int(a.Listeners),
		PlayCount: int(a.PlayCount),
		Images:    convertImages(a.Image),
		Tags:      convertTags(a.Tags),
	}
	for i, t := range a.Tracks.Track {
		rank := int(t.Attr.Rank)
		if rank == 0 {
			rank = i + 1
		}
		info.Tracks = append(info.Tracks, AlbumTrack{
			Rank:     rank,
			Name:     t.Name,
			URL:      t.URL,
			Duration: time.Duration(t.Duration) * time.Second,
		})
	}
	return info, nil
}
