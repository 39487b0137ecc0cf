package lastfm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// TrackService provides the track.* methods of the Last.fm API.
type TrackService struct {
	client *Client
}

type trackInfoResponse struct {
	Track struct {
		Name          string   `json:"name"`
		MBID          string   `json:"mbid"`
		URL           string   `json:"url"`
		Duration      count    `json:"duration"`
		Listeners     count    `json:"listeners"`
		PlayCount     count    `json:"playcount"`
		UserPlayCount count    `json:"userplaycount"`
		UserLoved     flag     `json:"userloved"`
		Artist        textNode `json:"artist"`
		Album         struct {
			Title string     `json:"title"`
			Image []rawImage `json:"image"`
		} `json:"album"`
		TopTags rawTags `json:"toptags"`
	} `json:"track"`
}

// Info returns track metadata. When user is non-empty the response
// includes the user's play count for the track.
//
// Example:
//
//	info, err := client.Track().Info(ctx, "Cher", "Believe", "rj")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(info.UserPlayCount)
func (s *TrackService) Info(ctx context.Context, artist, track, user string) (*TrackInfo, error) {
	if strings.TrimSpace(artist) == "" || strings.TrimSpace(track) == "" {
		return nil, fmt.Errorf("lastfm: artist and track are required")
	}
	params := map[string]string{
		"artist":      artist,
		"track":       track,
		"autocorrect": "1",
		"username":    user,
	}

	var resp trackInfoResponse
	if err := s.client.get(ctx, "track.getinfo", params, &resp); err != nil {
		return nil, err
	}

	t := resp.Track
	return &TrackInfo{
		Name:          t.Name,
		MBID:          t.MBID,
		URL:           t.URL,
		Artist:        t.Artist.value(),
		Album:         t.Album.Title,
		Duration:      time.Duration(t.Duration) * time.Millisecond,
		Listeners:     int(t.Listeners),
		PlayCount:     int(t.PlayCount),
		UserPlayCount: int(t.UserPlayCount),
		UserLoved:     bool(t.UserLoved),
		Tags:          convertTags(t.TopTags),
		Images:        convertImages(t.Album.Image),
	}, nil
}
